// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"testing"
	"time"

	"codeberg.org/oliverandrich/adotafacil/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageURLs(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"empty", "", []string{}},
		{"json array", `[{"url":"https://a/1.jpg"},{"url":"https://a/2.jpg"}]`, []string{"https://a/1.jpg", "https://a/2.jpg"}},
		{"drops null and missing", `[{"url":"https://a/1.jpg"},null,{},{"url":null},{"url":""}]`, []string{"https://a/1.jpg"}},
		{"json null", `null`, []string{}},
		{"raw https url", "https://blob.example/x.jpg", []string{"https://blob.example/x.jpg"}},
		{"raw http url", "http://blob.example/x.jpg", []string{"http://blob.example/x.jpg"}},
		{"garbage", "not-a-url", []string{}},
		{"json object", `{"url":"https://a/1.jpg"}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, models.ParseImageURLs(tt.raw, 1))
		})
	}
}

func TestEncodeImageURLs(t *testing.T) {
	raw, err := models.EncodeImageURLs([]string{"https://a/1.jpg", "", "https://a/2.jpg"})

	require.NoError(t, err)
	assert.JSONEq(t, `[{"url":"https://a/1.jpg"},{"url":"https://a/2.jpg"}]`, raw)
	assert.Equal(t, []string{"https://a/1.jpg", "https://a/2.jpg"}, models.ParseImageURLs(raw, 1))
}

func TestEncodeImageURLs_Empty(t *testing.T) {
	raw, err := models.EncodeImageURLs(nil)

	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestAnimal_AgeInMonths(t *testing.T) {
	a := &models.Animal{Years: 2, Months: 5}

	assert.Equal(t, 29, a.AgeInMonths())
}

func TestAnimalRow_View(t *testing.T) {
	now := time.Now()
	row := models.AnimalRow{
		Animal: models.Animal{
			ID:           7,
			OwnerID:      3,
			Name:         "Rex",
			ImageData:    `[{"url":"https://a/1.jpg"}]`,
			SituationID:  models.SituationAvailable,
			RegisteredAt: now,
		},
		IsFavorited: true,
		City:        "Belo Horizonte",
		State:       "MG",
	}

	v := row.View()

	assert.Equal(t, int64(7), v.ID)
	assert.Equal(t, []string{"https://a/1.jpg"}, v.Images)
	assert.True(t, v.IsFavorited)
	assert.Equal(t, "MG", v.State)
	assert.Nil(t, v.Owner)
}

func TestAnimalRow_View_WithOwner(t *testing.T) {
	row := models.AnimalRow{OwnerName: "Ana", OwnerPhone: "3199999"}

	v := row.View()

	require.NotNil(t, v.Owner)
	assert.Equal(t, "Ana", v.Owner.Name)
	assert.Equal(t, "3199999", v.Owner.Phone)
}

func TestViews_NeverNil(t *testing.T) {
	assert.NotNil(t, models.Views(nil))
	assert.Empty(t, models.Views(nil))
}

func TestRecoveryCode_IsExpired(t *testing.T) {
	now := time.Now()
	code := &models.RecoveryCode{ExpiresAt: now.Add(time.Minute)}

	assert.False(t, code.IsExpired(now))
	assert.True(t, code.IsExpired(now.Add(time.Minute)))
	assert.True(t, code.IsExpired(now.Add(2*time.Minute)))
}

func TestUserUpdate_IsEmpty(t *testing.T) {
	var u models.UserUpdate
	assert.True(t, u.IsEmpty())

	name := "Ana"
	u.Name = &name
	assert.False(t, u.IsEmpty())
}
