package domain

// Setting keys stored in the settings table
const (
	SettingAuthorName = "author_name"
	SettingAuthorInfo = "author_info"
)

// Settings is the singleton bot configuration editable by the admin
type Settings struct {
	AuthorName string
	AuthorInfo string
}
