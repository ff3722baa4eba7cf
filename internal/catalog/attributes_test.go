package catalog

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inventory-backend/internal/httperr"
	"inventory-backend/internal/models"
)

func TestBuildAttributeAssignsIDs(t *testing.T) {
	attr := buildAttribute(AttributeInput{
		Name: "size",
		Options: []OptionInput{
			{Value: "S", Stock: 3},
			{Value: "M", Stock: 5},
		},
	})

	if attr.ID.IsZero() {
		t.Fatal("expected attribute id to be assigned")
	}
	if len(attr.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(attr.Options))
	}
	for i, opt := range attr.Options {
		if opt.ID.IsZero() {
			t.Fatalf("expected option %d id to be assigned", i)
		}
	}
	if attr.Options[1].Stock != 5 {
		t.Fatalf("expected stock 5, got %d", attr.Options[1].Stock)
	}
}

func TestAppendAttributeRejectsDuplicateName(t *testing.T) {
	existing := []models.Attribute{{ID: primitive.NewObjectID(), Name: "size"}}

	_, err := appendAttribute(existing, AttributeInput{
		Name:    "size",
		Options: []OptionInput{{Value: "S"}},
	})
	if !errors.Is(err, httperr.ErrAttributeExists) {
		t.Fatalf("expected ErrAttributeExists, got %v", err)
	}

	attributes, err := appendAttribute(existing, AttributeInput{
		Name:    "color",
		Options: []OptionInput{{Value: "red"}},
	})
	if err != nil {
		t.Fatalf("appendAttribute returned error: %v", err)
	}
	if len(attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attributes))
	}
}

func TestAppendOptionsRejectsDuplicateValue(t *testing.T) {
	attribute := &models.Attribute{
		ID:      primitive.NewObjectID(),
		Name:    "size",
		Options: []models.Option{{ID: primitive.NewObjectID(), Value: "S", Stock: 1}},
	}

	err := appendOptions(attribute, []OptionInput{
		{Value: "M", Stock: 2},
		{Value: "S", Stock: 3},
	})
	if !errors.Is(err, httperr.ErrOptionExists) {
		t.Fatalf("expected ErrOptionExists, got %v", err)
	}
}

func TestAppendOptionsAddsAllWhenUnique(t *testing.T) {
	attribute := &models.Attribute{
		ID:      primitive.NewObjectID(),
		Name:    "size",
		Options: []models.Option{{ID: primitive.NewObjectID(), Value: "S"}},
	}

	if err := appendOptions(attribute, []OptionInput{
		{Value: "M", Stock: 2},
		{Value: "L", Stock: 4},
	}); err != nil {
		t.Fatalf("appendOptions returned error: %v", err)
	}
	if len(attribute.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(attribute.Options))
	}
	if attribute.Options[2].ID.IsZero() {
		t.Fatal("expected appended option id to be assigned")
	}
}

func TestRemoveAttribute(t *testing.T) {
	target := primitive.NewObjectID()
	attributes := []models.Attribute{
		{ID: primitive.NewObjectID(), Name: "size"},
		{ID: target, Name: "color"},
	}

	remaining, err := removeAttribute(attributes, target)
	if err != nil {
		t.Fatalf("removeAttribute returned error: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "size" {
		t.Fatalf("unexpected remaining attributes: %+v", remaining)
	}

	_, err = removeAttribute(remaining, target)
	if !errors.Is(err, httperr.ErrAttributeNotFound) {
		t.Fatalf("expected ErrAttributeNotFound, got %v", err)
	}
}

func TestRemoveOptionsSkipsUnknownIDs(t *testing.T) {
	keep := primitive.NewObjectID()
	drop := primitive.NewObjectID()
	attribute := &models.Attribute{
		ID:   primitive.NewObjectID(),
		Name: "size",
		Options: []models.Option{
			{ID: keep, Value: "S"},
			{ID: drop, Value: "M"},
		},
	}

	removeOptions(attribute, []primitive.ObjectID{drop, primitive.NewObjectID()})

	if len(attribute.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(attribute.Options))
	}
	if attribute.Options[0].ID != keep {
		t.Fatal("expected the surviving option to be the untouched one")
	}
}
