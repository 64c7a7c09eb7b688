// File: confkit/decode.go
package confkit

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// DecodeTree decodes a resolved configuration tree into the target struct
// or map. The target must be a non-nil pointer. Field mapping uses the
// "toml" struct tag with weakly typed input and the standard hook set.
func DecodeTree(tree map[string]any, target any) error {
	return decodeTree(tree, target, false)
}

// DecodeTreeAt decodes the subtree at a dot-notation path. A missing path
// decodes an empty tree into the target.
func DecodeTreeAt(tree map[string]any, basePath string, target any) error {
	section := navigateToPath(tree, basePath)
	sectionMap, ok := section.(map[string]any)
	if !ok {
		if section == nil {
			sectionMap = make(map[string]any)
		} else {
			return fmt.Errorf("path %q refers to non-map value (type %T)", basePath, section)
		}
	}
	return decodeTree(sectionMap, target, false)
}

// decodeTree is the single authoritative decode function. All public
// decoding paths delegate to it.
func decodeTree(tree map[string]any, target any, strict bool) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		ErrorUnused:      strict,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(tree); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	return nil
}

// decodeHook returns the composite decode hook for all type conversions.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToURLHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		raw := data.(string)
		if raw == "" {
			return net.IP{}, nil
		}
		ip := net.ParseIP(raw)
		if ip == nil {
			return nil, fmt.Errorf("failed to parse IP address: %q", raw)
		}
		return ip, nil
	}
}

// stringToURLHookFunc handles *url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(&url.URL{}) {
			return data, nil
		}

		raw := data.(string)
		if raw == "" {
			return &url.URL{}, nil
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse URL %q: %w", raw, err)
		}
		return u, nil
	}
}

// StoreProfile resolves one profile from a provider, decodes it into a
// fresh T, and creates a registry entry for the result. The registry's
// runtime flags gate decoding strictness (FlagStrictValidation) and
// concurrent file parsing (FlagParallelLoad, for providers supporting it).
func StoreProfile[T any](r *Registry, p Provider, profile Profile) (Handle[T], error) {
	if r.HasFlag(FlagParallelLoad) {
		if pp, ok := p.(interface{ Parallel(n int) Provider }); ok {
			p = pp.Parallel(4)
		}
	}

	data, err := p.Data()
	if err != nil {
		return Handle[T]{}, fmt.Errorf("provider %q: %w", p.Metadata().Name, err)
	}

	tree, ok := data[profile]
	if !ok {
		return Handle[T]{}, fmt.Errorf("provider %q profile %q: %w",
			p.Metadata().Name, profile, ErrConfigNotFound)
	}

	var value T
	if err := decodeTree(tree, &value, r.HasFlag(FlagStrictValidation)); err != nil {
		return Handle[T]{}, err
	}

	return Create(r, value), nil
}
