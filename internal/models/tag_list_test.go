package models

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Seasonal ", "gluten-free", "SEASONAL", "", "  "})
	want := TagList{"seasonal", "gluten-free"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTagListDecodesArray(t *testing.T) {
	typ, data, err := bson.MarshalValue([]string{"seasonal", "vegan"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var tags TagList
	if err := tags.UnmarshalBSONValue(typ, data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(tags, TagList{"seasonal", "vegan"}) {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestTagListDecodesLegacyString(t *testing.T) {
	typ, data, err := bson.MarshalValue(" Seasonal ")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var tags TagList
	if err := tags.UnmarshalBSONValue(typ, data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(tags, TagList{"seasonal"}) {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
