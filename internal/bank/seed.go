package bank

// defaultQuestions is the built-in question set. The bank format is
// fixed; new content ships with the binary.
var defaultQuestions = map[Subject]map[Difficulty][]Question{
	SubjectMath: {
		DifficultyEasy: {
			{Text: "What is 2 + 3?", Answer: "5"},
			{Text: "What is 10 - 6?", Answer: "4"},
		},
		DifficultyMedium: {
			{Text: "What is 8 × 7?", Answer: "56"},
			{Text: "What is 45 ÷ 9?", Answer: "5"},
		},
		DifficultyHard: {
			{Text: "What is the square root of 81?", Answer: "9"},
			{Text: "Solve: (3 + 4) × 2", Answer: "14"},
		},
	},
	SubjectScience: {
		DifficultyEasy: {
			{Text: "What planet do we live on?", Answer: "earth"},
			{Text: "What gas do humans breathe in?", Answer: "oxygen"},
		},
		DifficultyMedium: {
			{Text: "What gas do plants release?", Answer: "oxygen"},
			{Text: "What force pulls objects to Earth?", Answer: "gravity"},
		},
		DifficultyHard: {
			{Text: "What is H2O commonly called?", Answer: "water"},
			{Text: "What part of the cell contains DNA?", Answer: "nucleus"},
		},
	},
}

// Default returns the built-in question bank.
func Default() *Bank {
	return &Bank{questions: defaultQuestions}
}
