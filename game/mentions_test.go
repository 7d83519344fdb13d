package game

import (
	"reflect"
	"testing"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Łukasz", "lukasz"},
		{"ZAŻÓŁĆ gęślą", "zazolc gesla"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Fatalf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractMentions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain handles", "it was @Alice and @bob!", []string{"alice", "bob"}},
		{"slack encoded", "<@U024BE7LH|spengler> knows", []string{"spengler"}},
		{"encoded id only", "<@U024BE7LH> knows", []string{"u024be7lh"}},
		{"duplicates collapse", "@alice @ALICE @alice", []string{"alice"}},
		{"diacritics fold", "@Stanisław did it", []string{"stanislaw"}},
		{"no mentions", "nothing to see", nil},
		{"email is not a mention", "mail me at alice@example.com", []string{"example.com"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractMentions(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractMentions(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMentionMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, answer string
		want         bool
	}{
		{"it was @alice", "alice", true},
		{"it was @Alice", "alice", true},
		{"it was @alicea", "alice", false},
		{"alice without the at", "alice", false},
		{"@stanisław", "Stanislaw", true},
	}
	for _, tt := range tests {
		if got := MentionMatch(tt.text, tt.answer); got != tt.want {
			t.Fatalf("MentionMatch(%q, %q) = %v, want %v", tt.text, tt.answer, got, tt.want)
		}
	}
}

func TestExtractCodes(t *testing.T) {
	t.Parallel()

	extract := ExtractCodes([]string{"AAAA1111", "BBBB2222"})

	tests := []struct {
		text string
		want []string
	}{
		{"found AAAA1111 behind the plant", []string{"aaaa1111"}},
		{"AAAA1111 and bbbb2222", []string{"aaaa1111", "bbbb2222"}},
		{"nothing here", nil},
	}
	for _, tt := range tests {
		if got := extract(tt.text); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("extract(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
