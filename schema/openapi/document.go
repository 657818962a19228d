package openapi

import (
	"fmt"
	"sort"
	"strings"
)

type documentBuilder struct {
	config     generatorConfig
	parameters []map[string]any
}

func newDocumentBuilder(config generatorConfig, parameters []map[string]any) *documentBuilder {
	return &documentBuilder{
		config:     config,
		parameters: parameters,
	}
}

func (b *documentBuilder) build() (map[string]any, error) {
	document := map[string]any{
		"openapi": b.config.openAPIVersion,
		"info":    b.buildInfo(),
		"paths":   b.buildPaths(),
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func (b *documentBuilder) buildInfo() map[string]any {
	info := map[string]any{
		"title":   b.config.info.Title,
		"version": b.config.info.Version,
	}
	if b.config.info.Description != "" {
		info["description"] = b.config.info.Description
	}
	return info
}

func (b *documentBuilder) buildPaths() map[string]any {
	responses := make(map[string]any, len(b.config.responses))
	statuses := make([]string, 0, len(b.config.responses))
	for status := range b.config.responses {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		response := map[string]any{
			"description": b.config.responses[status].Description,
		}
		if strings.HasPrefix(status, "2") {
			response["content"] = map[string]any{
				b.config.contentType: map[string]any{
					"schema": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "object"},
					},
				},
			}
		}
		responses[status] = response
	}

	parameters := make([]any, 0, len(b.parameters))
	for _, param := range b.parameters {
		parameters = append(parameters, param)
	}

	operation := map[string]any{
		"operationId": b.operationID(),
		"parameters":  parameters,
		"responses":   responses,
	}
	if summary := strings.TrimSpace(b.config.operation.Summary); summary != "" {
		operation["summary"] = summary
	}

	return map[string]any{
		b.config.operation.Path: map[string]any{
			b.method(): operation,
		},
	}
}

func (b *documentBuilder) method() string {
	method := strings.ToLower(b.config.operation.Method)
	if method == "" {
		method = "get"
	}
	return method
}

func (b *documentBuilder) operationID() string {
	if b.config.operation.OperationID != "" {
		return b.config.operation.OperationID
	}
	return fmt.Sprintf("%s:%s", b.method(), b.config.operation.Path)
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("openapi: document cannot be nil")
	}
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		if !strings.HasPrefix(pathKey, "/") {
			return fmt.Errorf("openapi: path %q must start with /", pathKey)
		}
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["parameters"].([]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing parameters", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	return nil
}
