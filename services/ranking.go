package services

import (
	"fmt"
	"sort"
	"strings"

	"courtfinder/constants"
	"courtfinder/models"
)

type SortMethod string

const (
	SortNewest  SortMethod = "NEWEST"
	SortHighest SortMethod = "HIGHEST"
	SortLowest  SortMethod = "LOWEST"
)

// ParseSortMethod không phân biệt hoa thường, chuỗi rỗng là NEWEST
func ParseSortMethod(s string) (SortMethod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return SortMethod(constants.DefaultSortMethod), nil
	}
	switch m := SortMethod(s); m {
	case SortNewest, SortHighest, SortLowest:
		return m, nil
	}
	return "", fmt.Errorf("unknown sort method %q", s)
}

// sortReviews sắp xếp ổn định, hòa thì review id nhỏ hơn đứng trước
func sortReviews(reviews []models.Review, method SortMethod) {
	var less func(a, b *models.Review) bool
	switch method {
	case SortHighest:
		less = func(a, b *models.Review) bool { return a.Rating > b.Rating }
	case SortLowest:
		less = func(a, b *models.Review) bool { return a.Rating < b.Rating }
	default:
		less = func(a, b *models.Review) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(reviews, func(i, j int) bool {
		a, b := &reviews[i], &reviews[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.ID < b.ID
	})
}

// paginate trả về trang thứ page (bắt đầu từ 1), ngoài phạm vi thì trả về slice rỗng.
// So sánh số trang trước khi nhân để page lớn không bị tràn số.
func paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 {
		return []T{}
	}
	pages := len(items) / size
	if len(items)%size != 0 {
		pages++
	}
	if page-1 >= pages {
		return []T{}
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end]
}
