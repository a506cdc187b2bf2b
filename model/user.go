package model

type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserShort is the owner/booker view embedded in other payloads.
type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u *User) Short() UserShort { return UserShort{ID: u.ID, Name: u.Name} }
