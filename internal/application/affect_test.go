package application

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/sentra-emo/internal/domain"
)

func TestAffectDeriverUnknownLabelsAreBounded(t *testing.T) {
	t.Parallel()

	deriver := newTestDeriver()
	for i := range maxUnknownLabels + 50 {
		deriver.Derive([]domain.LabelScore{{Label: fmt.Sprintf("unseen%04d", i), Score: 1}})
	}
	// Labels already recorded keep counting once the registry is full.
	deriver.Derive([]domain.LabelScore{{Label: "unseen0000", Score: 1}})

	labels := deriver.UnknownLabels()
	require.Len(t, labels, maxUnknownLabels)
	assert.Contains(t, labels, "unseen0000")
	assert.NotContains(t, labels, fmt.Sprintf("unseen%04d", maxUnknownLabels))
	assert.Equal(t, 2, deriver.unknown["unseen0000"])
}

func TestAffectDeriverKnownLabelsNotRecorded(t *testing.T) {
	t.Parallel()

	deriver := newTestDeriver()
	affect := deriver.Derive([]domain.LabelScore{{Label: "happy", Score: 1}})

	assert.Equal(t, "joy", affect.Top.Label)
	assert.Empty(t, deriver.UnknownLabels())
}
