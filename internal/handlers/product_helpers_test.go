package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizeProductDocumentComputesDerivedFields(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":     "Test",
		"price":    100.0,
		"discount": 80.0,
		"stock":    5,
		"images":   []string{"a.jpg"},
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if !product.IsHotOffer {
		t.Fatal("expected IsHotOffer to be true")
	}
	if !product.InStock {
		t.Fatal("expected InStock to be true")
	}
}

func TestNormalizeProductDocumentLegacyImageString(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":   "Legacy",
		"price":  10.0,
		"images": "single.jpg",
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}
	if len(product.Images) != 1 || product.Images[0] != "single.jpg" {
		t.Fatalf("expected single image to decode as list, got %v", product.Images)
	}
	if product.Stock != 0 || product.InStock {
		t.Fatalf("expected missing stock to default to 0, got %d", product.Stock)
	}
}

func TestProductJSONAlwaysIncludesHotOfferFlag(t *testing.T) {
	product, err := normalizeProductDocument(bson.M{
		"name":     "Test",
		"price":    120.0,
		"discount": 99.0,
		"stock":    10,
	})
	if err != nil {
		t.Fatalf("normalizeProductDocument returned error: %v", err)
	}

	body, err := json.Marshal(product)
	if err != nil {
		t.Fatalf("json marshal failed: %v", err)
	}

	jsonBody := string(body)
	if !strings.Contains(jsonBody, "\"isHotOffer\":true") {
		t.Fatalf("expected isHotOffer=true in response json, got %s", jsonBody)
	}
	if !strings.Contains(jsonBody, "\"discount\":99") {
		t.Fatalf("expected discount in response json, got %s", jsonBody)
	}
}
