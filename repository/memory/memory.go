package memory

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"courtfinder/models"
	"courtfinder/repository"
)

// Store defines an in-memory repository.Store.
// Transactions are serialized and rolled back from a snapshot on error.
// Reads outside a transaction may observe its uncommitted writes.
type Store struct {
	sync.RWMutex
	txMu sync.Mutex

	users   map[uint]models.User
	reviews map[uint]models.Review
	votes   map[uint]models.Vote
	courts  map[int64]models.Court

	nextUserID   uint
	nextReviewID uint
	nextVoteID   uint

	batchLookups atomic.Int64
}

// NewStore creates a new empty memory store.
func NewStore() *Store {
	return &Store{
		users:   map[uint]models.User{},
		reviews: map[uint]models.Review{},
		votes:   map[uint]models.Vote{},
		courts:  map[int64]models.Court{},
	}
}

func (s *Store) Users() repository.UserRepository     { return &userRepository{s: s} }
func (s *Store) Reviews() repository.ReviewRepository { return &reviewRepository{s: s} }
func (s *Store) Votes() repository.VoteRepository     { return &voteRepository{s: s} }
func (s *Store) Courts() repository.CourtRepository   { return &courtRepository{s: s} }

// VoteBatchLookups returns how many times FindByUserAndReviews was called.
func (s *Store) VoteBatchLookups() int64 {
	return s.batchLookups.Load()
}

type snapshot struct {
	users                              map[uint]models.User
	reviews                            map[uint]models.Review
	votes                              map[uint]models.Vote
	courts                             map[int64]models.Court
	nextUserID, nextReviewID, nextVote uint
}

func (s *Store) snapshot() snapshot {
	s.RLock()
	defer s.RUnlock()
	return snapshot{
		users:        cloneMap(s.users),
		reviews:      cloneMap(s.reviews),
		votes:        cloneMap(s.votes),
		courts:       cloneMap(s.courts),
		nextUserID:   s.nextUserID,
		nextReviewID: s.nextReviewID,
		nextVote:     s.nextVoteID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.Lock()
	defer s.Unlock()
	s.users = snap.users
	s.reviews = snap.reviews
	s.votes = snap.votes
	s.courts = snap.courts
	s.nextUserID = snap.nextUserID
	s.nextReviewID = snap.nextReviewID
	s.nextVoteID = snap.nextVote
}

// Transaction runs fn against a transaction-scoped view of the store.
// Writes made through the store itself wait for the running transaction,
// so a rollback only discards the transaction's own changes.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	defer func() {
		if r := recover(); r != nil {
			s.restore(snap)
			panic(r)
		}
	}()

	if err := fn(&txStore{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// beginWrite serializes a write made outside a transaction with running transactions.
func (s *Store) beginWrite(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

// txStore is the view handed to a transaction; its repositories do not take txMu.
type txStore struct {
	s *Store
}

func (t *txStore) Users() repository.UserRepository     { return &userRepository{s: t.s, tx: true} }
func (t *txStore) Reviews() repository.ReviewRepository { return &reviewRepository{s: t.s, tx: true} }
func (t *txStore) Votes() repository.VoteRepository     { return &voteRepository{s: t.s, tx: true} }
func (t *txStore) Courts() repository.CourtRepository   { return &courtRepository{s: t.s, tx: true} }

// Transaction inside a transaction joins the outer one.
func (t *txStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

type userRepository struct {
	s  *Store
	tx bool
}

func (r *userRepository) FindByID(_ context.Context, id uint) (*models.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) ExistsByID(_ context.Context, id uint) (bool, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	_, ok := r.s.users[id]
	return ok, nil
}

func (r *userRepository) FindAll(_ context.Context) ([]models.User, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	users := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepository) Save(_ context.Context, user *models.User) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	for id, u := range r.s.users {
		if id != user.ID && (u.Email == user.Email || u.DisplayName == user.DisplayName) {
			return repository.ErrDuplicate
		}
	}

	if user.ID == 0 {
		r.s.nextUserID++
		user.ID = r.s.nextUserID
		r.s.users[user.ID] = *user
		return nil
	}
	if user.ID > r.s.nextUserID {
		r.s.nextUserID = user.ID
	}
	existing, ok := r.s.users[user.ID]
	if !ok {
		r.s.users[user.ID] = *user
		return nil
	}
	existing.Email = user.Email
	existing.DisplayName = user.DisplayName
	r.s.users[user.ID] = existing
	return nil
}

func (r *userRepository) IncrementVoteCounts(_ context.Context, id uint, upDelta, downDelta int) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.UpvoteCount += upDelta
	u.DownvoteCount += downDelta
	r.s.users[id] = u
	return nil
}

func (r *userRepository) SetVoteCounts(_ context.Context, id uint, up, down int) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.UpvoteCount = up
	u.DownvoteCount = down
	r.s.users[id] = u
	return nil
}

type reviewRepository struct {
	s  *Store
	tx bool
}

// withAuthor must be called with the store lock held.
func (r *reviewRepository) withAuthor(review models.Review) models.Review {
	review.User = r.s.users[review.UserID]
	return review
}

func (r *reviewRepository) FindByID(_ context.Context, id uint) (*models.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	review, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	review = r.withAuthor(review)
	return &review, nil
}

func (r *reviewRepository) FindByCourtAndUser(_ context.Context, courtID int64, userID uint) (*models.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	for _, review := range r.s.reviews {
		if review.CourtID == courtID && review.UserID == userID {
			review = r.withAuthor(review)
			return &review, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *reviewRepository) FindByCourt(_ context.Context, courtID int64) ([]models.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var reviews []models.Review
	for _, review := range r.s.reviews {
		if review.CourtID == courtID {
			reviews = append(reviews, r.withAuthor(review))
		}
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *reviewRepository) FindAll(_ context.Context) ([]models.Review, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	reviews := make([]models.Review, 0, len(r.s.reviews))
	for _, review := range r.s.reviews {
		reviews = append(reviews, review)
	}
	sort.Slice(reviews, func(i, j int) bool { return reviews[i].ID < reviews[j].ID })
	return reviews, nil
}

func (r *reviewRepository) Save(_ context.Context, review *models.Review) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	for id, existing := range r.s.reviews {
		if id != review.ID && existing.CourtID == review.CourtID && existing.UserID == review.UserID {
			return repository.ErrDuplicate
		}
	}

	stored := *review
	stored.User = models.User{}
	if review.ID == 0 {
		r.s.nextReviewID++
		review.ID = r.s.nextReviewID
		stored.ID = review.ID
		r.s.reviews[review.ID] = stored
		return nil
	}
	if review.ID > r.s.nextReviewID {
		r.s.nextReviewID = review.ID
	}
	existing, ok := r.s.reviews[review.ID]
	if !ok {
		r.s.reviews[review.ID] = stored
		return nil
	}
	existing.Title = review.Title
	existing.Body = review.Body
	existing.Rating = review.Rating
	existing.Edited = review.Edited
	r.s.reviews[review.ID] = existing
	return nil
}

func (r *reviewRepository) DeleteByID(_ context.Context, id uint) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

func (r *reviewRepository) IncrementVoteCount(_ context.Context, id uint, delta int) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	review, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	review.VoteCount += delta
	r.s.reviews[id] = review
	return nil
}

func (r *reviewRepository) SetVoteCount(_ context.Context, id uint, count int) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	review, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	review.VoteCount = count
	r.s.reviews[id] = review
	return nil
}

type voteRepository struct {
	s  *Store
	tx bool
}

func (r *voteRepository) FindByUserAndReview(_ context.Context, userID, reviewID uint) (*models.Vote, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	for _, v := range r.s.votes {
		if v.UserID == userID && v.ReviewID == reviewID {
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *voteRepository) FindByUserAndReviews(_ context.Context, userID uint, reviewIDs []uint) ([]models.Vote, error) {
	r.s.batchLookups.Add(1)

	r.s.RLock()
	defer r.s.RUnlock()

	wanted := make(map[uint]struct{}, len(reviewIDs))
	for _, id := range reviewIDs {
		wanted[id] = struct{}{}
	}
	var votes []models.Vote
	for _, v := range r.s.votes {
		if _, ok := wanted[v.ReviewID]; ok && v.UserID == userID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

func (r *voteRepository) FindByReview(_ context.Context, reviewID uint) ([]models.Vote, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	var votes []models.Vote
	for _, v := range r.s.votes {
		if v.ReviewID == reviewID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes, nil
}

func (r *voteRepository) Save(_ context.Context, vote *models.Vote) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	for id, v := range r.s.votes {
		if id != vote.ID && v.UserID == vote.UserID && v.ReviewID == vote.ReviewID {
			return repository.ErrDuplicate
		}
	}
	if vote.ID == 0 {
		r.s.nextVoteID++
		vote.ID = r.s.nextVoteID
	} else if vote.ID > r.s.nextVoteID {
		r.s.nextVoteID = vote.ID
	}
	r.s.votes[vote.ID] = *vote
	return nil
}

func (r *voteRepository) Delete(_ context.Context, vote *models.Vote) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	delete(r.s.votes, vote.ID)
	return nil
}

func (r *voteRepository) DeleteByReview(_ context.Context, reviewID uint) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	for id, v := range r.s.votes {
		if v.ReviewID == reviewID {
			delete(r.s.votes, id)
		}
	}
	return nil
}

func (r *voteRepository) TallyByReview(_ context.Context) (map[uint]repository.Tally, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	tallies := map[uint]repository.Tally{}
	for _, v := range r.s.votes {
		t := tallies[v.ReviewID]
		if v.Type == models.Upvote {
			t.Upvotes++
		} else {
			t.Downvotes++
		}
		tallies[v.ReviewID] = t
	}
	return tallies, nil
}

type courtRepository struct {
	s  *Store
	tx bool
}

func (r *courtRepository) FindByID(_ context.Context, id int64) (*models.Court, error) {
	r.s.RLock()
	defer r.s.RUnlock()

	c, ok := r.s.courts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *courtRepository) Save(_ context.Context, court *models.Court) error {
	defer r.s.beginWrite(r.tx)()
	r.s.Lock()
	defer r.s.Unlock()

	r.s.courts[court.ID] = *court
	return nil
}
