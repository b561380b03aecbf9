// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"
)

// Animal is an adoptable animal listing as stored in the animais table.
type Animal struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id_animal"`
	OwnerID      int64     `db:"id_usuario"`
	Name         string    `db:"nome"`
	Species      string    `db:"especie"`
	Breed        string    `db:"raca"`
	Years        int       `db:"idade"`
	Months       int       `db:"meses"`
	Color        string    `db:"cor"`
	ColorDetails string    `db:"detalhes_cor"`
	Sex          string    `db:"sexo"`
	Size         string    `db:"porte"`
	Description  string    `db:"descricao"`
	ImageData    string    `db:"imagem_url"`
	SituationID  int       `db:"id_situacao"`
	RegisteredAt time.Time `db:"data_cadastro"`
}

// AgeInMonths returns the total age used for range comparisons.
func (a *Animal) AgeInMonths() int {
	return a.Years*12 + a.Months
}

// AnimalRow is an Animal joined with the columns the listing queries add.
// Columns a query does not select stay at their zero value.
type AnimalRow struct { //nolint:govet // fieldalignment: readability over optimization
	Animal
	IsFavorited bool   `db:"is_favorited"`
	City        string `db:"cidade"`
	State       string `db:"estado"`
	OwnerName   string `db:"nome_usuario"`
	OwnerPhone  string `db:"telefone_usuario"`
}

// OwnerSummary is the contact information shown on a listing detail page.
type OwnerSummary struct {
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
}

// AnimalView is the public JSON shape of a listing.
type AnimalView struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64         `json:"id"`
	OwnerID      int64         `json:"id_usuario"`
	Name         string        `json:"nome"`
	Species      string        `json:"especie"`
	Breed        string        `json:"raca"`
	Years        int           `json:"idade"`
	Months       int           `json:"meses"`
	Color        string        `json:"cor"`
	ColorDetails string        `json:"detalhes_cor"`
	Sex          string        `json:"sexo"`
	Size         string        `json:"porte"`
	Description  string        `json:"descricao"`
	Images       []string      `json:"imagens"`
	SituationID  int           `json:"id_situacao"`
	RegisteredAt time.Time     `json:"data_cadastro"`
	IsFavorited  bool          `json:"is_favorited"`
	City         string        `json:"cidade,omitempty"`
	State        string        `json:"estado,omitempty"`
	Owner        *OwnerSummary `json:"usuario,omitempty"`
}

// View shapes the row into its public representation.
func (r *AnimalRow) View() AnimalView {
	v := AnimalView{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		Name:         r.Name,
		Species:      r.Species,
		Breed:        r.Breed,
		Years:        r.Years,
		Months:       r.Months,
		Color:        r.Color,
		ColorDetails: r.ColorDetails,
		Sex:          r.Sex,
		Size:         r.Size,
		Description:  r.Description,
		Images:       ParseImageURLs(r.ImageData, r.ID),
		SituationID:  r.SituationID,
		RegisteredAt: r.RegisteredAt,
		IsFavorited:  r.IsFavorited,
		City:         r.City,
		State:        r.State,
	}
	if r.OwnerName != "" || r.OwnerPhone != "" {
		v.Owner = &OwnerSummary{Name: r.OwnerName, Phone: r.OwnerPhone}
	}
	return v
}

// Views shapes a slice of rows. It never returns nil.
func Views(rows []AnimalRow) []AnimalView {
	views := make([]AnimalView, 0, len(rows))
	for i := range rows {
		views = append(views, rows[i].View())
	}
	return views
}

type imageEntry struct {
	URL *string `json:"url"`
}

// ParseImageURLs decodes the stored imagem_url payload, a JSON array of
// {"url": ...} objects. Entries without a url are dropped. A payload that is
// not valid JSON is accepted as a single URL when it looks like one.
func ParseImageURLs(raw string, animalID int64) []string {
	urls := []string{}
	if strings.TrimSpace(raw) == "" {
		return urls
	}

	var entries []*imageEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
			return []string{raw}
		}
		slog.Warn("image_url_parse_failed", "animal_id", animalID, "error", err)
		return urls
	}

	for _, e := range entries {
		if e == nil || e.URL == nil || *e.URL == "" {
			continue
		}
		urls = append(urls, *e.URL)
	}
	return urls
}

// EncodeImageURLs encodes urls into the stored imagem_url payload.
func EncodeImageURLs(urls []string) (string, error) {
	entries := make([]imageEntry, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		entries = append(entries, imageEntry{URL: &u})
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// AnimalInput carries the writable attributes of a listing.
type AnimalInput struct { //nolint:govet // fieldalignment: readability over optimization
	Name         string
	Species      string
	Breed        string
	Years        int
	Months       int
	Color        string
	ColorDetails string
	Sex          string
	Size         string
	Description  string
	SituationID  int
}
