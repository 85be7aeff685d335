package core

// CategoryStat aggregates the expenses of one category.
type CategoryStat struct {
	Category Category
	Count    int
	Total    float64
}
