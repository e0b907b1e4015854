package services

// TrustSampleThreshold là số vote tối thiểu trước khi trust score khác 0
const TrustSampleThreshold = 10

// TrustScore tính độ tin cậy của tác giả trong khoảng [-100, 100].
// Dưới TrustSampleThreshold vote thì trả về 0.
func TrustScore(upvotes, downvotes int) float64 {
	total := upvotes + downvotes
	if total < TrustSampleThreshold {
		return 0
	}
	return 100 * float64(upvotes-downvotes) / float64(total)
}
