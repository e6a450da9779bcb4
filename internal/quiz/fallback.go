package quiz

// fallbackQuestions is served when the trivia service cannot be
// reached or returns garbage.
var fallbackQuestions = []Question{
	{
		Text:       "What is the capital of Nepal?",
		Category:   "Geography",
		Difficulty: "easy",
		Answers:    []string{"Pokhara", "Kathmandu", "Lalitpur", "Biratnagar"},
		Correct:    1,
	},
	{
		Text:       "Which planet is known as the Red Planet?",
		Category:   "Science",
		Difficulty: "easy",
		Answers:    []string{"Venus", "Jupiter", "Mars", "Saturn"},
		Correct:    2,
	},
	{
		Text:       "How many bits are in a byte?",
		Category:   "Science: Computers",
		Difficulty: "easy",
		Answers:    []string{"4", "8", "16", "32"},
		Correct:    1,
	},
	{
		Text:       "Who painted the Mona Lisa?",
		Category:   "Art",
		Difficulty: "easy",
		Answers:    []string{"Leonardo da Vinci", "Michelangelo", "Raphael", "Donatello"},
		Correct:    0,
	},
	{
		Text:       "What is the chemical symbol for gold?",
		Category:   "Science",
		Difficulty: "easy",
		Answers:    []string{"Go", "Gd", "Au", "Ag"},
		Correct:    2,
	},
	{
		Text:       "In which year did World War II end?",
		Category:   "History",
		Difficulty: "easy",
		Answers:    []string{"1943", "1944", "1945", "1946"},
		Correct:    2,
	},
	{
		Text:       "What is the largest mammal?",
		Category:   "Animals",
		Difficulty: "easy",
		Answers:    []string{"African Elephant", "Blue Whale", "Giraffe", "Orca"},
		Correct:    1,
	},
	{
		Text:       "Which language is this bot written in?",
		Category:   "Science: Computers",
		Difficulty: "medium",
		Answers:    []string{"Rust", "Python", "Go", "JavaScript"},
		Correct:    2,
	},
}

// Fallback returns n questions from the local set, cycling through it
// when n exceeds the set's size.
func Fallback(n int) []Question {
	questions := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, fallbackQuestions[i%len(fallbackQuestions)])
	}
	return questions
}
