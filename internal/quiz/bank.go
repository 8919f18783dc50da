package quiz

import (
	"fmt"

	"github.com/julianstephens/bobarewards/internal/utils"
)

// Question is a multiple choice trivia question
type Question struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
}

// CorrectOption returns the text of the correct answer
func (q Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// ValidChoice reports whether i is one of the option indexes
func (q Question) ValidChoice(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// Bank is an ordered set of questions.
type Bank []Question

// DefaultBank is the built-in question rotation
var DefaultBank = Bank{
	{
		ID:           "popular-topping",
		Prompt:       "Which topping is the most popular in bubble tea?",
		Options:      []string{"Pudding", "Tapioca Pearls", "Jelly", "Red Bean"},
		CorrectIndex: 1,
	},
	{
		ID:           "origin",
		Prompt:       "Where did bubble tea originate?",
		Options:      []string{"Japan", "Hong Kong", "Taiwan", "Thailand"},
		CorrectIndex: 2,
	},
	{
		ID:           "pearl-ingredient",
		Prompt:       "What are tapioca pearls made from?",
		Options:      []string{"Rice flour", "Cassava starch", "Potato starch", "Wheat"},
		CorrectIndex: 1,
	},
	{
		ID:           "thai-tea-color",
		Prompt:       "What gives classic Thai milk tea its orange color?",
		Options:      []string{"Carrot juice", "Mango", "Food coloring", "Turmeric"},
		CorrectIndex: 2,
	},
	{
		ID:           "taro-flavor",
		Prompt:       "Taro milk tea gets its purple color from which plant?",
		Options:      []string{"A root vegetable", "A berry", "A flower", "Seaweed"},
		CorrectIndex: 0,
	},
	{
		ID:           "cheese-foam",
		Prompt:       "Cheese foam tea is usually topped with what?",
		Options:      []string{"Grated cheddar", "Whipped cream cheese", "Parmesan", "Mozzarella"},
		CorrectIndex: 1,
	},
	{
		ID:           "straw-width",
		Prompt:       "Why are bubble tea straws extra wide?",
		Options:      []string{"To fit the pearls", "To cool the drink", "For style", "To drink faster"},
		CorrectIndex: 0,
	},
}

// epoch anchors the rotation so 2024-01-01 maps to the first question
const epoch = "2024-01-01"

// QuestionFor returns the question of the day. Every call for the same day
// returns the same question.
func (b Bank) QuestionFor(day string) (Question, error) {
	if len(b) == 0 {
		return Question{}, fmt.Errorf("question bank is empty")
	}
	n, err := utils.DaysBetween(epoch, day)
	if err != nil {
		return Question{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	i := n % len(b)
	if i < 0 {
		i += len(b)
	}
	return b[i], nil
}

// Lookup finds a question by id
func (b Bank) Lookup(id string) (Question, bool) {
	for _, q := range b {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
