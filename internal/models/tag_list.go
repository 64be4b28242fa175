package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// TagList holds the browse tags on a menu item. Tags are stored lowercase so
// the storefront tag filter is a plain equality match.
type TagList []string

// NormalizeTags lowercases and trims raw tag input, dropping empties and
// duplicates. Order of first appearance is kept.
func NormalizeTags(raw []string) TagList {
	tags := make(TagList, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// UnmarshalBSONValue tolerates documents where tags were imported as a single
// string instead of an array.
func (s *TagList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null:
		*s = nil
		return nil
	case bsontype.Array:
		var values []string
		if err := bson.UnmarshalValue(t, data, &values); err != nil {
			return err
		}
		*s = values
		return nil
	case bsontype.String:
		var value string
		if err := bson.UnmarshalValue(t, data, &value); err != nil {
			return err
		}
		*s = NormalizeTags([]string{value})
		return nil
	default:
		return fmt.Errorf("cannot decode %s into TagList", t)
	}
}

// MarshalBSONValue always writes an array.
func (s TagList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}
