package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/medbank-platform/question-engine/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func TestReportService_ExportGroups(t *testing.T) {
	ctx := context.Background()

	repo := newMockRepository()
	repo.group.On("ListByScope", ctx, "year4").Return([]*models.SimilarQuestionGroup{
		{
			ID:          1,
			QuestionIDs: datatypes.JSONSlice[uint]{3, 5},
			SimilarityScores: datatypes.NewJSONType(map[string]int{
				"3-5": 87,
			}),
			ScopeTag:  "year4",
			CreatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		},
	}, nil)

	data, err := NewReportService(repo, testLogger()).ExportGroups(ctx, "year4")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Similarity Groups")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Group ID", rows[0][0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "year4", rows[1][1])
	assert.Equal(t, "3, 5", rows[1][2])
	assert.Equal(t, "3-5: 87%", rows[1][3])
}

func TestReportService_GroupForQuestion(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the containing group", func(t *testing.T) {
		repo := newMockRepository()
		repo.group.On("FindByMember", ctx, uint(5)).Return(&models.SimilarQuestionGroup{
			ID:          2,
			QuestionIDs: datatypes.JSONSlice[uint]{3, 5},
		}, nil)

		group, err := NewReportService(repo, testLogger()).GroupForQuestion(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, uint(2), group.ID)
		assert.True(t, group.Contains(5))
	})

	t.Run("ungrouped question maps to not-found", func(t *testing.T) {
		repo := newMockRepository()
		repo.group.On("FindByMember", ctx, uint(7)).Return(nil, nil)

		_, err := NewReportService(repo, testLogger()).GroupForQuestion(ctx, 7)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestFormatScores_StableOrder(t *testing.T) {
	scores := map[string]int{"9-12": 55, "1-2": 90, "3-5": 70}
	assert.Equal(t, "1-2: 90%; 3-5: 70%; 9-12: 55%", formatScores(scores))
}
