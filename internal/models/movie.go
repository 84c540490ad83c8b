package models

import (
	"time"
)

type Movie struct {
	ID          string    `json:"id" example:"3f2b8c1e-8d4a-4e55-9a43-0c1f5b7d2e90"`
	Title       string    `json:"title" example:"Inception"`
	Poster      string    `json:"poster" example:"https://cdn.example.com/posters/inception.jpg"`
	Review      string    `json:"review" example:"A heist inside a dream inside a dream."`
	Screenshots []string  `json:"screenshots"`
	DownloadURL string    `json:"downloadUrl" example:"https://cdn.example.com/inception.mp4"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MovieInput is the editable part of a Movie as submitted by the admin forms.
type MovieInput struct {
	Title       string
	Poster      string
	Review      string
	Screenshots []string
	DownloadURL string
}

// Apply replaces every editable field of m with the input values.
func (in MovieInput) Apply(m *Movie) {
	m.Title = in.Title
	m.Poster = in.Poster
	m.Review = in.Review
	m.Screenshots = append([]string{}, in.Screenshots...)
	m.DownloadURL = in.DownloadURL
}
