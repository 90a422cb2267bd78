package indexer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/medisearch/internal/models"
	"github.com/hyperjump/medisearch/internal/profile"
)

var (
	// ErrMissingType is returned for records without a non-empty type.
	ErrMissingType = errors.New("record has no type")
	// ErrInvalidRecord is returned for records whose fields cannot be normalized.
	ErrInvalidRecord = errors.New("invalid record")
)

const (
	keyID        = "id"
	keyType      = "type"
	keyCreatedAt = "created_at"
	keyUpdatedAt = "updated_at"
)

// Normalize converts a raw record into a SearchDocument. The record is not modified.
func (idx *Indexer) Normalize(rec models.Record) (*models.SearchDocument, error) {
	typ := strings.ToLower(strings.TrimSpace(profile.StringValue(rec[keyType])))
	if typ == "" {
		return nil, ErrMissingType
	}
	now := idx.clock().UTC()

	id := strings.TrimSpace(profile.StringValue(rec[keyID]))
	if id == "" {
		id = typ + "_" + uuid.New().String()
	}

	createdAt := now
	if raw, ok := rec[keyCreatedAt]; ok && !isEmpty(raw) {
		t, err := idx.toTime(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: created_at: %v", ErrInvalidRecord, id, err)
		}
		createdAt = t.UTC()
	}

	doc := &models.SearchDocument{
		ID:        id,
		Type:      typ,
		Fields:    make(map[string]interface{}, len(rec)),
		CreatedAt: createdAt,
		UpdatedAt: now,
	}
	for k, v := range rec {
		switch k {
		case keyID, keyType, keyCreatedAt, keyUpdatedAt:
			continue
		}
		if v == nil {
			continue
		}
		kind, _ := idx.registry.KindOf(k)
		doc.Fields[k] = idx.coerce(kind, v)
	}
	return doc, nil
}

func (idx *Indexer) coerce(kind profile.Kind, v interface{}) interface{} {
	if list, ok := v.([]interface{}); ok {
		out := make([]interface{}, 0, len(list))
		for _, item := range list {
			if item != nil {
				out = append(out, idx.coerce(kind, item))
			}
		}
		return out
	}
	switch kind {
	case profile.KindBoolean:
		return profile.BoolToken(v)
	case profile.KindText, profile.KindKeyword:
		return profile.StringValue(v)
	case profile.KindNumeric:
		if f, ok := profile.NumberValue(v); ok {
			return f
		}
		return v
	case profile.KindDate:
		if t, err := idx.toTime(v); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
		return profile.StringValue(v)
	}
	if t, ok := v.(time.Time); ok {
		return t.UTC().Format(time.RFC3339)
	}
	return v
}

func (idx *Indexer) toTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		return profile.ParseTime(x, idx.location)
	}
	return time.Time{}, fmt.Errorf("unsupported date value %v", v)
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}
