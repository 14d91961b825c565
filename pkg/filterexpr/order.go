package filterexpr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// OrderField compares two items on one key; it returns <0, 0 or >0 like cmp.Compare.
type OrderField[T any] struct {
	Compare func(a, b T) int
}

// OrderSchema describes ordering defaults and whitelisted keys.
type OrderSchema[T any] struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Fields             map[string]OrderField[T]
}

// Order is a parsed order_by clause with at most two keys.
type Order struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// Parse validates raw ("key [asc|desc], key [asc|desc]") against the schema.
func (s OrderSchema[T]) Parse(raw string) (Order, error) { //nolint:gocognit,gocyclo // parsing DSL entails validation branches for readability
	if s.DefaultPrimary == "" {
		return Order{}, errors.New("order schema default primary key required")
	}
	if s.FallbackKey == "" {
		return Order{}, errors.New("order schema fallback key required")
	}
	if _, ok := s.Fields[s.DefaultPrimary]; !ok {
		return Order{}, fmt.Errorf("order key %q missing from schema fields", s.DefaultPrimary)
	}
	if _, ok := s.Fields[s.FallbackKey]; !ok {
		return Order{}, fmt.Errorf("fallback order key %q missing from schema fields", s.FallbackKey)
	}

	ord := Order{
		PrimaryKey:    s.DefaultPrimary,
		PrimaryDesc:   s.DefaultPrimaryDesc,
		SecondaryKey:  s.FallbackKey,
		SecondaryDesc: s.FallbackDesc,
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ord, nil
	}

	seen := make(map[string]struct{}, 2)
	idx := 0
	for _, seg := range strings.Split(raw, ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if _, ok := s.Fields[key]; !ok {
			return Order{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}

		desc := false
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return Order{}, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return Order{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}

		if _, dup := seen[key]; dup {
			return Order{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = struct{}{}

		switch idx {
		case 0:
			ord.PrimaryKey, ord.PrimaryDesc = key, desc
			// a lone primary key keeps the fallback as tie-breaker
			ord.SecondaryKey, ord.SecondaryDesc = s.FallbackKey, s.FallbackDesc
		case 1:
			ord.SecondaryKey, ord.SecondaryDesc = key, desc
		default:
			return Order{}, errors.New("order_by supports at most two keys")
		}
		idx++
	}

	if ord.SecondaryKey == ord.PrimaryKey {
		ord.SecondaryKey = ""
	}
	return ord, nil
}

// Sort orders items in place by ord; items equal on both keys keep their relative order.
func (s OrderSchema[T]) Sort(items []T, ord Order) {
	primary, ok := s.Fields[ord.PrimaryKey]
	if !ok {
		return
	}
	secondary, hasSecondary := s.Fields[ord.SecondaryKey]

	sort.SliceStable(items, func(i, j int) bool {
		if c := directed(primary.Compare(items[i], items[j]), ord.PrimaryDesc); c != 0 {
			return c < 0
		}
		if !hasSecondary {
			return false
		}
		return directed(secondary.Compare(items[i], items[j]), ord.SecondaryDesc) < 0
	})
}

func directed(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}
