package shortener_test

import (
	"context"
	"errors"

	"github.com/serroba/shortlink/internal/shortener"
)

var errMock = errors.New("mock error")

// stubRepo is a configurable test double for shortener.Repository.
type stubRepo struct {
	getLinkResult   *shortener.Link
	getLinkErr      error
	insertLinkErr   error
	insertedLinks   []shortener.Link
	insertClickErr  error
	insertedClicks  []shortener.ClickEvent
	countResult     int64
	countErr        error
	recentResult    []shortener.ClickEvent
	recentErr       error
	getLinkCalls    int
	insertLinkCalls int
}

func (s *stubRepo) InsertLink(_ context.Context, link *shortener.Link) error {
	s.insertLinkCalls++

	if s.insertLinkErr != nil {
		return s.insertLinkErr
	}

	s.insertedLinks = append(s.insertedLinks, *link)

	return nil
}

func (s *stubRepo) GetLink(_ context.Context, _ shortener.Code) (*shortener.Link, error) {
	s.getLinkCalls++

	if s.getLinkErr != nil {
		return nil, s.getLinkErr
	}

	return s.getLinkResult, nil
}

func (s *stubRepo) InsertClick(_ context.Context, click *shortener.ClickEvent) error {
	if s.insertClickErr != nil {
		return s.insertClickErr
	}

	s.insertedClicks = append(s.insertedClicks, *click)

	return nil
}

func (s *stubRepo) CountClicks(_ context.Context, _ shortener.Code) (int64, error) {
	return s.countResult, s.countErr
}

func (s *stubRepo) RecentClicks(
	_ context.Context, _ shortener.Code, _ int,
) ([]shortener.ClickEvent, error) {
	return s.recentResult, s.recentErr
}
