package service

import (
	"context"
	"errors"
	"strings"

	"github.com/hondana/bookmarket-backend/internal/model"
	"github.com/hondana/bookmarket-backend/internal/repository"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type CreateListingInput struct {
	Title       string
	Author      string
	Description string
	Price       int64
	ImageURL    *string
}

type ListingService interface {
	Create(ctx context.Context, sellerUID string, in CreateListingInput) (*model.Listing, *model.Book, error)
	Get(ctx context.Context, id uint64) (*model.Listing, *model.Book, error)
	List(ctx context.Context, limit, offset int) ([]repository.ListingWithBook, int64, error)
	ListBySeller(ctx context.Context, sellerUID string) ([]repository.ListingWithBook, error)
	Remove(ctx context.Context, id uint64, sellerUID string) error
}

type listingService struct {
	listingRepo repository.ListingRepository
	bookRepo    repository.BookRepository
}

func NewListingService(listingRepo repository.ListingRepository, bookRepo repository.BookRepository) ListingService {
	return &listingService{listingRepo: listingRepo, bookRepo: bookRepo}
}

func (s *listingService) Create(ctx context.Context, sellerUID string, in CreateListingInput) (*model.Listing, *model.Book, error) {
	if sellerUID == "" {
		return nil, nil, errors.New("seller is required")
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	if in.Title == "" || len(in.Title) > 200 {
		return nil, nil, errors.New("invalid title")
	}
	if in.Author == "" {
		return nil, nil, errors.New("author is required")
	}
	if in.Price <= 0 {
		return nil, nil, errors.New("price must be positive")
	}
	if in.ImageURL != nil && strings.HasPrefix(strings.TrimSpace(*in.ImageURL), "data:") {
		return nil, nil, errors.New("imageUrl must be a URL, not data URI")
	}

	book := &model.Book{
		Title:       in.Title,
		Author:      in.Author,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, nil, err
	}
	listing := &model.Listing{
		SellerUID: sellerUID,
		BookID:    book.ID,
		Price:     in.Price,
		ImageURL:  in.ImageURL,
		Status:    model.ListingStatusAvailable,
	}
	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, nil, err
	}
	return listing, book, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Listing, *model.Book, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	book, err := s.bookRepo.FindByID(ctx, listing.BookID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}
	return listing, book, nil
}

func (s *listingService) List(ctx context.Context, limit, offset int) ([]repository.ListingWithBook, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	listings, total, err := s.listingRepo.ListAvailable(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.withBooks(ctx, listings)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *listingService) ListBySeller(ctx context.Context, sellerUID string) ([]repository.ListingWithBook, error) {
	if sellerUID == "" {
		return nil, errors.New("seller is required")
	}
	listings, err := s.listingRepo.ListBySeller(ctx, sellerUID)
	if err != nil {
		return nil, err
	}
	return s.withBooks(ctx, listings)
}

// Remove retires an available listing. It uses the same conditional status
// update as checkout, so a listing that just sold cannot be pulled.
func (s *listingService) Remove(ctx context.Context, id uint64, sellerUID string) error {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if listing.SellerUID != sellerUID {
		return ErrForbidden
	}
	affected, err := s.listingRepo.UpdateStatus(ctx, id, model.ListingStatusAvailable, model.ListingStatusRemoved)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrListingUnavailable
	}
	return nil
}

func (s *listingService) withBooks(ctx context.Context, listings []model.Listing) ([]repository.ListingWithBook, error) {
	bookIDs := make([]uint64, 0, len(listings))
	for _, l := range listings {
		bookIDs = append(bookIDs, l.BookID)
	}
	books, err := s.bookRepo.FindByIDs(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	rows := make([]repository.ListingWithBook, 0, len(listings))
	for _, l := range listings {
		row := repository.ListingWithBook{Listing: l}
		if b, ok := books[l.BookID]; ok {
			book := b
			row.Book = &book
		}
		rows = append(rows, row)
	}
	return rows, nil
}
