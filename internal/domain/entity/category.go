package entity

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NewCategory(id int64, name string) *Category {
	return &Category{ID: id, Name: name}
}
