package words

// builtin is used when no catalog file can be loaded.
var builtin = []Category{
	{ID: "animals", Name: "Animals", Words: []Entry{
		{Word: "CAT", Hint: "Common household pet", Difficulty: "easy"},
		{Word: "DOG", Hint: "Man's best friend", Difficulty: "easy"},
		{Word: "ELEPHANT", Hint: "Large animal with trunk", Difficulty: "medium"},
		{Word: "GIRAFFE", Hint: "Tallest animal", Difficulty: "medium"},
	}},
	{ID: "countries", Name: "Countries", Words: []Entry{
		{Word: "USA", Hint: "United States of America", Difficulty: "easy"},
		{Word: "FRANCE", Hint: "Country with Eiffel Tower", Difficulty: "easy"},
		{Word: "BRAZIL", Hint: "Largest South American country", Difficulty: "medium"},
		{Word: "AUSTRALIA", Hint: "Country and continent", Difficulty: "medium"},
	}},
	{ID: "technology", Name: "Technology", Words: []Entry{
		{Word: "COMPUTER", Hint: "Electronic device for processing data", Difficulty: "easy"},
		{Word: "INTERNET", Hint: "Global network", Difficulty: "easy"},
		{Word: "ALGORITHM", Hint: "Step-by-step procedure", Difficulty: "hard"},
		{Word: "BLOCKCHAIN", Hint: "Distributed ledger technology", Difficulty: "hard"},
	}},
}
