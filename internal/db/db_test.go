package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevisionKindConstants(t *testing.T) {
	assert.Equal(t, "content", KindContent)
	assert.Equal(t, "image", KindImage)
}

func TestSchemaSQL_Embedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS revisions")
}

func TestRecordRevision_RejectsInvalidInput(t *testing.T) {
	// Input is checked before the pool is touched, so a zero DB is enough.
	db := &DB{}
	ctx := context.Background()

	_, err := db.RecordRevision(ctx, &RevisionInput{Kind: KindContent})
	assert.ErrorContains(t, err, "path is required")

	_, err = db.RecordRevision(ctx, &RevisionInput{Path: "content.json", Kind: "video"})
	assert.ErrorContains(t, err, "invalid revision kind")
}

func TestClose_NilPool(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, db.Close)
}
