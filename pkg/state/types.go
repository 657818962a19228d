package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-filters/internal/hydrate"
)

var ErrNamespaceRequired = errors.New("state: namespace is required")

var ErrStoreRequired = errors.New("state: store is required")

// Kind selects which record of a namespace a Ref points at.
type Kind int

const (
	// KindLive is the last-applied filter set.
	KindLive Kind = iota
	// KindSaved is the list of named presets.
	KindSaved
)

func (k Kind) String() string {
	switch k {
	case KindSaved:
		return "saved"
	default:
		return "live"
	}
}

// savedSuffix is appended to a namespace for the preset list.
const savedSuffix = "_saved"

// Ref identifies one persisted record for one filter-enabled screen.
type Ref struct {
	Namespace string
	Kind      Kind
}

// Live returns the Ref of the last-applied filter set for namespace.
func Live(namespace string) Ref {
	return Ref{Namespace: namespace, Kind: KindLive}
}

// Saved returns the Ref of the preset list for namespace.
func Saved(namespace string) Ref {
	return Ref{Namespace: namespace, Kind: KindSaved}
}

// Identifier returns the storage key for the reference.
func (r Ref) Identifier() (string, error) {
	namespace := strings.TrimSpace(r.Namespace)
	if namespace == "" {
		return "", ErrNamespaceRequired
	}
	switch r.Kind {
	case KindLive:
		return namespace, nil
	case KindSaved:
		return namespace + savedSuffix, nil
	default:
		return "", fmt.Errorf("state: unsupported kind %d", r.Kind)
	}
}

// Store gets, sets and deletes one value per key. Implementations must be
// safe for concurrent use. Deleting a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// DecodeError reports a persisted payload that could not be decoded.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("state: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsDecodeError reports whether err wraps a *DecodeError.
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// PostDecode adjusts or validates a value right after it was decoded.
type PostDecode[T any] func(key string, value *T) error

// LoadJSON reads and decodes the record at ref. ok is false when no record
// exists. A corrupt record yields a *DecodeError.
func LoadJSON[T any](ctx context.Context, store Store, ref Ref, hooks ...PostDecode[T]) (value T, ok bool, err error) {
	var zero T
	if store == nil {
		return zero, false, ErrStoreRequired
	}
	key, err := ref.Identifier()
	if err != nil {
		return zero, false, err
	}

	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("state: get %q: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}

	options := make([]hydrate.DecoderOption[T], 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		hook := hook
		options = append(options, hydrate.WithPostHook[T](func(hctx hydrate.Context, out *T) error {
			return hook(hctx.Key, out)
		}))
	}

	decoded, err := hydrate.NewDecoder(options...).Decode(hydrate.Context{Key: key, Kind: ref.Kind.String()}, raw)
	if err != nil {
		return zero, false, &DecodeError{Key: key, Err: err}
	}
	return decoded, true, nil
}

// SaveJSON encodes value and writes it at ref, overwriting any prior value.
func SaveJSON[T any](ctx context.Context, store Store, ref Ref, value T) error {
	if store == nil {
		return ErrStoreRequired
	}
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("state: set %q: %w", key, err)
	}
	return nil
}

// Clear removes the record at ref.
func Clear(ctx context.Context, store Store, ref Ref) error {
	if store == nil {
		return ErrStoreRequired
	}
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, key); err != nil {
		return fmt.Errorf("state: delete %q: %w", key, err)
	}
	return nil
}
