package engine

// Title fragments for synthetic legacy problems.
var (
	TitleVerbs = []string{
		"Two", "Three", "Merge", "Reverse", "Rotate", "Find", "Count", "Search",
		"Sort", "Flatten", "Partition", "Climb", "Jump", "Group", "Validate",
	}
	TitleNouns = []string{
		"Sum", "Intervals", "Linked List", "Array", "Matrix", "Peak Element",
		"Substrings", "Anagrams", "Parentheses", "Stairs", "Islands", "Palindrome",
		"Subsets", "Permutations", "Median",
	}
	Difficulties = []string{"easy", "medium", "hard"}
)
