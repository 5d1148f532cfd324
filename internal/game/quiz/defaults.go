package quiz

// DefaultQuestions returns the built-in question pool used to seed an empty
// database on first start.
func DefaultQuestions() []Question {
	return []Question{
		Fill("What is the capital of France?", "Paris"),
		Fill("What is the chemical symbol for gold?", "Au"),
		Fill("How many continents are there?", "7", "seven"),
		Fill("Which planet is known as the Red Planet?", "Mars"),
		Fill("What is the largest ocean on Earth?", "Pacific", "Pacific Ocean"),
		Fill("In which year did the Berlin Wall fall?", "1989"),
		MultipleChoice("Which of these is a prime number?", "13", "9", "15", "21"),
		MultipleChoice("Who painted the Mona Lisa?", "Leonardo da Vinci", "Michelangelo", "Raphael", "Donatello"),
		MultipleChoice("What is the smallest country in the world?", "Vatican City", "Monaco", "San Marino", "Liechtenstein"),
		MultipleChoice("Which gas makes up most of Earth's atmosphere?", "Nitrogen", "Oxygen", "Carbon dioxide", "Argon"),
		MultipleChoice("How many strings does a standard violin have?", "4", "5", "6", "7"),
		MultipleChoice("Which language has the most native speakers?", "Mandarin Chinese", "English", "Spanish", "Hindi"),
	}
}
