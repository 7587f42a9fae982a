package roster

type Entry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
