package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context carries identifiers tied to a persisted payload.
type Context struct {
	Key  string
	Kind string
}

// PreHook lets callers mutate or normalise the payload before decoding.
type PreHook func(Context, any) (any, error)

// PostHook lets callers adjust or validate the hydrated value after decoding.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the default JSON decoding when provided.
type CustomDecoder[T any] func(Context, any) (T, error)

// DecoderOption configures a Decoder instance.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts raw persisted bytes into strongly typed values.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

// WithPreHook applies hook prior to decoding.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.postHooks = append(d.postHooks, hook)
	}
}

// WithDisallowUnknownFields invokes json.Decoder.DisallowUnknownFields.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.configureDec = append(d.configureDec, func(dec *json.Decoder) {
			dec.DisallowUnknownFields()
		})
	}
}

// WithCustomDecoder replaces the default JSON decoding path.
func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts raw into T applying configured hooks. Hooks only run when
// at least one pre-hook or a custom decoder is configured, otherwise raw is
// decoded directly.
func (d *Decoder[T]) Decode(ctx Context, raw []byte) (T, error) {
	var zero T

	if len(bytes.TrimSpace(raw)) == 0 {
		return zero, fmt.Errorf("hydrate: payload is empty for key %q", ctx.Key)
	}

	payload := raw
	if len(d.preHooks) > 0 || d.custom != nil {
		var current any
		if err := json.Unmarshal(raw, &current); err != nil {
			return zero, fmt.Errorf("hydrate: parse key %q: %w", ctx.Key, err)
		}

		for _, hook := range d.preHooks {
			if hook == nil {
				continue
			}
			next, err := hook(ctx, current)
			if err != nil {
				return zero, fmt.Errorf("hydrate: pre-hook for key %q failed: %w", ctx.Key, err)
			}
			if next != nil {
				current = next
			}
		}

		if d.custom != nil {
			result, err := d.custom(ctx, current)
			if err != nil {
				return zero, fmt.Errorf("hydrate: custom decoder for key %q failed: %w", ctx.Key, err)
			}
			return d.runPostHooks(ctx, result)
		}

		buffer, err := json.Marshal(current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: marshal payload for key %q: %w", ctx.Key, err)
		}
		payload = buffer
	}

	var result T
	decoder := json.NewDecoder(bytes.NewReader(payload))
	for _, configure := range d.configureDec {
		if configure != nil {
			configure(decoder)
		}
	}
	if err := decoder.Decode(&result); err != nil {
		return zero, fmt.Errorf("hydrate: decode key %q: %w", ctx.Key, err)
	}
	return d.runPostHooks(ctx, result)
}

func (d *Decoder[T]) runPostHooks(ctx Context, result T) (T, error) {
	var zero T
	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for key %q failed: %w", ctx.Key, err)
		}
	}
	return result, nil
}
