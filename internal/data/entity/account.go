package entity

// Account is the identity record: credentials only. Role and display data
// live on Profile, which shares the account ID.
type Account struct {
	BaseSimple
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}
