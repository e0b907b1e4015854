// Package locks cung cấp khóa theo review để tuần tự hóa các thao tác vote
// trên cùng một review mà không cần khóa toàn cục.
package locks

import (
	"hash/fnv"
	"strconv"
	"sync"
)

const DefaultStripes = 256

// Striped là một tập cố định các mutex, review được ánh xạ vào stripe theo hash.
// Các stripe không bao giờ được tạo thêm hay xóa đi sau khi khởi tạo.
type Striped struct {
	stripes []sync.Mutex
	mask    uint64
}

// NewStriped tạo guard với n stripe, n được làm tròn lên lũy thừa của 2
func NewStriped(n int) *Striped {
	if n <= 0 {
		n = DefaultStripes
	}
	size := 1
	for size < n {
		size <<= 1
	}
	return &Striped{
		stripes: make([]sync.Mutex, size),
		mask:    uint64(size - 1),
	}
}

func (s *Striped) Stripes() int {
	return len(s.stripes)
}

func (s *Striped) index(reviewID uint) int {
	h := fnv.New64a()
	_, _ = h.Write(strconv.AppendUint(nil, uint64(reviewID), 10))
	return int(h.Sum64() & s.mask)
}

// Lock chặn cho tới khi giữ được khóa của reviewID và trả về hàm mở khóa
func (s *Striped) Lock(reviewID uint) (unlock func()) {
	mu := &s.stripes[s.index(reviewID)]
	mu.Lock()
	return mu.Unlock
}

// LockAll giữ toàn bộ stripe theo thứ tự chỉ số
func (s *Striped) LockAll() (unlock func()) {
	for i := range s.stripes {
		s.stripes[i].Lock()
	}
	return func() {
		for i := len(s.stripes) - 1; i >= 0; i-- {
			s.stripes[i].Unlock()
		}
	}
}
