package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFilter_ObjectID(t *testing.T) {
	oid := primitive.NewObjectID()

	got, ok := idFilter(oid.Hex())["_id"].(primitive.ObjectID)
	if !ok {
		t.Fatalf("expected ObjectID filter")
	}
	if got != oid {
		t.Fatalf("expected %s, got %s", oid.Hex(), got.Hex())
	}
}

func TestIDFilter_PlainString(t *testing.T) {
	if got := idFilter("doc-1")["_id"]; got != "doc-1" {
		t.Fatalf("expected plain id, got %v", got)
	}
}

func TestConnect_InvalidURI(t *testing.T) {
	if _, _, err := Connect(t.Context(), Config{URI: "not-a-uri", Database: "clinic"}); err == nil {
		t.Fatalf("expected error for invalid uri")
	}
}

func TestToggleAvailabilityUpdate_NegatesStoredFlag(t *testing.T) {
	out, err := bson.MarshalExtJSON(bson.D{{Key: "u", Value: toggleAvailabilityUpdate()}}, false, false)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"u":[{"$set":{"available":{"$not":"$available"}}}]}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}
