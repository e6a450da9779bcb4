package quiz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchParsesQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("amount"))
		w.Write([]byte(`{
			"response_code": 0,
			"results": [
				{
					"category": "Science &amp; Nature",
					"difficulty": "easy",
					"question": "What does H2O stand for?",
					"correct_answer": "Water",
					"incorrect_answers": ["Oxygen", "Hydrogen", "Helium"]
				},
				{
					"category": "History",
					"difficulty": "medium",
					"question": "Who was the first president of the USA?",
					"correct_answer": "George Washington",
					"incorrect_answers": ["John Adams", "Thomas Jefferson", "Benjamin Franklin"]
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	questions, err := c.fetch(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	first := questions[0]
	assert.Equal(t, "What does H2O stand for?", first.Text)
	// HTML entities are unescaped.
	assert.Equal(t, "Science & Nature", first.Category)
	require.Len(t, first.Answers, 4)
	assert.Contains(t, first.Answers, "Water")
	assert.Equal(t, "Water", first.Answers[first.Correct])
}

func TestFetchFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "non-zero response code",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"response_code": 1, "results": []}`))
			},
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "wrong answer count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{
					"response_code": 0,
					"results": [{
						"category": "c", "difficulty": "easy", "question": "q",
						"correct_answer": "a", "incorrect_answers": ["b"]
					}]
				}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL)
			questions := c.Fetch(context.Background(), 3)
			require.Len(t, questions, 3)
			assert.Equal(t, fallbackQuestions[0].Text, questions[0].Text)
		})
	}
}

func TestFallbackCycles(t *testing.T) {
	n := len(fallbackQuestions) + 2
	questions := Fallback(n)
	require.Len(t, questions, n)
	assert.Equal(t, questions[0].Text, questions[len(fallbackQuestions)].Text)

	for _, q := range questions {
		assert.Len(t, q.Answers, 4)
		assert.Less(t, q.Correct, len(q.Answers))
		assert.GreaterOrEqual(t, q.Correct, 0)
	}
}
