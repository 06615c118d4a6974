package service

import "github.com/KolpakovK/webrtc-rooms/internal/core/domain"

// CandidateQueue buffers remote candidates that arrive before a link exists
// for their sender. Entries keep arrival order.
type CandidateQueue struct {
	pending map[domain.ParticipantID][]domain.Candidate
}

func NewCandidateQueue() *CandidateQueue {
	return &CandidateQueue{pending: make(map[domain.ParticipantID][]domain.Candidate)}
}

func (q *CandidateQueue) Push(id domain.ParticipantID, c domain.Candidate) {
	q.pending[id] = append(q.pending[id], c)
}

// Take returns the queued candidates for id in FIFO order and clears the entry.
func (q *CandidateQueue) Take(id domain.ParticipantID) []domain.Candidate {
	cands := q.pending[id]
	delete(q.pending, id)
	return cands
}

func (q *CandidateQueue) Drop(id domain.ParticipantID) {
	delete(q.pending, id)
}

func (q *CandidateQueue) Len(id domain.ParticipantID) int {
	return len(q.pending[id])
}

func (q *CandidateQueue) Has(id domain.ParticipantID) bool {
	_, ok := q.pending[id]
	return ok
}
