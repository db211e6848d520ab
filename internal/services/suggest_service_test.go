package services

import (
	"context"
	"testing"
	"time"

	"github.com/moritahrk/tabememo/internal/models"
)

func TestRecordWordIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RecordWord(ctx, db, models.WordTypeArea, "神田"); err != nil {
			t.Fatalf("record word: %v", err)
		}
	}
	if err := svc.RecordWord(ctx, db, models.WordTypeArea, "下北沢"); err != nil {
		t.Fatalf("record word: %v", err)
	}

	words, err := svc.Words(ctx, models.WordTypeArea)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("words = %v", words)
	}
}

func TestRecordWordSkipsBlankAndUnknownType(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)
	ctx := context.Background()

	if err := svc.RecordWord(ctx, db, models.WordTypeArea, "   "); err != nil {
		t.Fatalf("blank word: %v", err)
	}
	if err := svc.RecordWord(ctx, db, "favorite_color", "blue"); err != nil {
		t.Fatalf("unknown type: %v", err)
	}

	var count int64
	db.Model(&models.SuggestWord{}).Count(&count)
	if count != 0 {
		t.Fatalf("corpus rows = %d, want 0", count)
	}
}

func TestSameWordPerFieldType(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)
	ctx := context.Background()

	// The same text may exist once per field type.
	if err := svc.RecordWord(ctx, db, models.WordTypeArea, "銀座"); err != nil {
		t.Fatalf("record area: %v", err)
	}
	if err := svc.RecordWord(ctx, db, models.WordTypeTag, "銀座"); err != nil {
		t.Fatalf("record tag: %v", err)
	}

	areas, err := svc.Words(ctx, models.WordTypeArea)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	tags, err := svc.Words(ctx, models.WordTypeTag)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(areas) != 1 || len(tags) != 1 {
		t.Fatalf("areas = %v, tags = %v", areas, tags)
	}
}

func TestGetOrCreateTagReusesRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)

	first, err := svc.GetOrCreateTag(db, "そば", models.TagCategoryCustom)
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	second, err := svc.GetOrCreateTag(db, "そば", models.TagCategoryGenre)
	if err != nil {
		t.Fatalf("get tag: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("tag rows differ: %s vs %s", first.ID, second.ID)
	}
	// The original category wins; a later submission never rewrites it.
	if second.Category != models.TagCategoryCustom {
		t.Fatalf("category = %q", second.Category)
	}

	// Unknown categories fall back to custom.
	odd, err := svc.GetOrCreateTag(db, "老舗", "whatever")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if odd.Category != models.TagCategoryCustom {
		t.Fatalf("category = %q", odd.Category)
	}
}

func TestCreateTagRecordsSuggestion(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)
	ctx := context.Background()

	tag, err := svc.CreateTag(ctx, "食べ放題", models.TagCategoryCustom)
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if tag.Name != "食べ放題" {
		t.Fatalf("tag = %+v", tag)
	}

	words, err := svc.Words(ctx, models.WordTypeTag)
	if err != nil {
		t.Fatalf("words: %v", err)
	}
	if len(words) != 1 || words[0] != "食べ放題" {
		t.Fatalf("tag suggestions = %v", words)
	}
}

func TestAllCoversEveryFieldType(t *testing.T) {
	db := newTestDB(t)
	svc := NewSuggestService(db, nil, time.Minute)

	all, err := svc.All(context.Background())
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != len(models.WordTypes) {
		t.Fatalf("all = %v", all)
	}
	for _, wt := range models.WordTypes {
		if _, ok := all[wt]; !ok {
			t.Fatalf("missing field type %q", wt)
		}
	}
}
