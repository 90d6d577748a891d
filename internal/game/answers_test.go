package game

import "testing"

func TestAnswerStore_InsertAndLookup(t *testing.T) {
	s := NewAnswerStore()
	a := newAnswer(1, 1, "alice", "blue", "cat")
	b := newAnswer(2, 1, "bob", "red", "dog")
	s.Insert(a)
	s.Insert(b)

	if s.Len() != 2 {
		t.Fatalf("want len 2, got %d", s.Len())
	}
	got, ok := s.Get(2)
	if !ok || got != b {
		t.Fatalf("Get(2): want %v, got %v ok=%v", b, got, ok)
	}
	if _, ok := s.Get(3); ok {
		t.Fatalf("Get(3): want miss")
	}

	all := s.All()
	if all[0] != a || all[1] != b {
		t.Fatalf("All() not in insertion order")
	}
}

func TestAnswerStore_AddVote(t *testing.T) {
	s := NewAnswerStore()
	s.Insert(newAnswer(1, 1, "alice", "blue", "cat"))

	added, ok := s.AddVote(1, "u1")
	if !added || !ok {
		t.Fatalf("first vote: want added=true ok=true, got %v %v", added, ok)
	}
	added, ok = s.AddVote(1, "u1")
	if added || !ok {
		t.Fatalf("duplicate vote: want added=false ok=true, got %v %v", added, ok)
	}
	if _, ok := s.AddVote(9, "u1"); ok {
		t.Fatalf("vote on missing answer: want ok=false")
	}

	a, _ := s.Get(1)
	if len(a.Votes) != 1 || !a.HasVote("u1") {
		t.Fatalf("voter set wrong: %v", a.Votes)
	}
}

func TestAnswerStore_ClearVotesAndClear(t *testing.T) {
	s := NewAnswerStore()
	s.Insert(newAnswer(1, 1, "alice", "blue", "cat"))
	s.AddVote(1, "u1")
	s.AddVote(1, "u2")

	s.ClearVotes()
	a, _ := s.Get(1)
	if len(a.Votes) != 0 || a.HasVote("u1") {
		t.Fatalf("votes survive ClearVotes: %v", a.Votes)
	}
	if s.Len() != 1 {
		t.Fatalf("ClearVotes dropped answers")
	}

	// A cleared set accepts the same voter again.
	if added, _ := s.AddVote(1, "u1"); !added {
		t.Fatalf("re-vote after ClearVotes should count")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Clear left answers behind")
	}
	if _, ok := s.Get(1); ok {
		t.Fatalf("Clear left index entries behind")
	}
}
