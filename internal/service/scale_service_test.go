package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/classtrack/gradebook-api/pkg/errors"
)

func standardRangeRequests() []ScaleRangeRequest {
	return []ScaleRangeRequest{
		{Min: 90, Max: 100, Letter: "A", GPA: 4.0},
		{Min: 80, Max: 89, Letter: "B", GPA: 3.0},
		{Min: 70, Max: 79, Letter: "C", GPA: 2.0},
		{Min: 60, Max: 69, Letter: "D", GPA: 1.0},
		{Min: 0, Max: 59, Letter: "F", GPA: 0.0},
	}
}

func TestScaleServiceReplaceStoresValidScale(t *testing.T) {
	scales := &mockScaleRepo{}
	invalidator := &mockInvalidator{}
	svc := NewScaleService(scales, &mockSettingsRepo{}, invalidator, nil, nil)

	scale, err := svc.Replace(context.Background(), ReplaceScaleRequest{
		ClassID: "class1",
		Name:    "Standard",
		Ranges:  standardRangeRequests(),
	})
	require.NoError(t, err)
	assert.Len(t, scale.Ranges, 5)
	assert.NotNil(t, scales.replaced)
	assert.Equal(t, []string{"class1"}, invalidator.classes)
}

func TestScaleServiceReplaceRejectsOverlappingRanges(t *testing.T) {
	scales := &mockScaleRepo{}
	svc := NewScaleService(scales, &mockSettingsRepo{}, &mockInvalidator{}, nil, nil)

	_, err := svc.Replace(context.Background(), ReplaceScaleRequest{
		ClassID: "class1",
		Name:    "Broken",
		Ranges: []ScaleRangeRequest{
			{Min: 85, Max: 100, Letter: "A", GPA: 4.0},
			{Min: 0, Max: 90, Letter: "F", GPA: 0.0},
		},
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfiguration))
	assert.Nil(t, scales.replaced)
}

func TestScaleServiceGetFallsBackToDefault(t *testing.T) {
	svc := NewScaleService(&mockScaleRepo{}, &mockSettingsRepo{}, &mockInvalidator{}, nil, nil)

	scale, err := svc.Get(context.Background(), "class1")
	require.NoError(t, err)
	require.Len(t, scale.Ranges, 5)
	assert.Equal(t, "A", scale.Ranges[0].Letter)
}

func TestScaleServiceUpdateSettings(t *testing.T) {
	settings := &mockSettingsRepo{}
	invalidator := &mockInvalidator{}
	svc := NewScaleService(&mockScaleRepo{}, settings, invalidator, nil, nil)

	err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
		ClassID:         "class1",
		AtRiskThreshold: 65,
		RecentWindow:    4,
	})
	require.NoError(t, err)
	assert.True(t, settings.stored)
	assert.Equal(t, 65.0, settings.threshold)
	assert.Equal(t, []string{"class1"}, invalidator.classes)
}

func TestScaleServiceUpdateSettingsRejectsBadWindow(t *testing.T) {
	svc := NewScaleService(&mockScaleRepo{}, &mockSettingsRepo{}, &mockInvalidator{}, nil, nil)

	err := svc.UpdateSettings(context.Background(), UpdateSettingsRequest{
		ClassID:         "class1",
		AtRiskThreshold: 65,
		RecentWindow:    0,
	})
	require.Error(t, err)
}
