package domain

import (
	"maps"
	"time"
)

// User is one logical identity, with an optional sub-record per external platform.
// ID is generated at creation and never changes, including across merges.
type User struct {
	ID        string            `json:"id" bson:"_id"`
	Discord   *DiscordAccount   `json:"discord,omitempty" bson:"discord,omitempty"`
	Twitch    *TwitchAccount    `json:"twitch,omitempty" bson:"twitch,omitempty"`
	Minecraft *MinecraftAccount `json:"minecraft,omitempty" bson:"minecraft,omitempty"`
	Steam     *SteamAccount     `json:"steam,omitempty" bson:"steam,omitempty"`
	Accounts  map[string]string `json:"accounts,omitempty" bson:"accounts,omitempty"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// DiscordAccount is the confirmed Discord identity
type DiscordAccount struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Tag      string `json:"tag,omitempty" bson:"tag,omitempty"`
}

// TwitchAccount mirrors the Helix user object
type TwitchAccount struct {
	ID              string `json:"id" bson:"id"`
	Login           string `json:"login" bson:"login"`
	DisplayName     string `json:"display_name" bson:"display_name"`
	Type            string `json:"type,omitempty" bson:"type,omitempty"`
	BroadcasterType string `json:"broadcaster_type,omitempty" bson:"broadcaster_type,omitempty"`
	Description     string `json:"description,omitempty" bson:"description,omitempty"`
	ProfileImageURL string `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	OfflineImageURL string `json:"offline_image_url,omitempty" bson:"offline_image_url,omitempty"`
	ViewCount       int    `json:"view_count,omitempty" bson:"view_count,omitempty"`
}

// MinecraftAccount is a Java profile or a Bedrock (Floodgate) identity
type MinecraftAccount struct {
	ID       string `json:"id" bson:"id"`
	Username string `json:"username" bson:"username"`
	Edition  string `json:"edition" bson:"edition"`
	XUID     string `json:"xuid,omitempty" bson:"xuid,omitempty"`
}

// SteamAccount is a resolved Steam community profile
type SteamAccount struct {
	ID             string `json:"id" bson:"id"` // SteamID64
	SteamID        string `json:"steam_id" bson:"steam_id"`
	SteamID3       string `json:"steam_id3" bson:"steam_id3"`
	CustomURL      string `json:"custom_url,omitempty" bson:"custom_url,omitempty"`
	Profile        string `json:"profile" bson:"profile"`
	ProfileState   int    `json:"profile_state" bson:"profile_state"`
	ProfileCreated int64  `json:"profile_created,omitempty" bson:"profile_created,omitempty"`
	Name           string `json:"name" bson:"name"`
	RealName       string `json:"real_name,omitempty" bson:"real_name,omitempty"`
	Location       string `json:"location,omitempty" bson:"location,omitempty"`
}

// Account is implemented by every platform sub-record
type Account interface {
	PlatformID() string
	Handle() string
}

func (a *DiscordAccount) PlatformID() string   { return a.ID }
func (a *DiscordAccount) Handle() string       { return a.Username }
func (a *TwitchAccount) PlatformID() string    { return a.ID }
func (a *TwitchAccount) Handle() string        { return a.Login }
func (a *MinecraftAccount) PlatformID() string { return a.ID }
func (a *MinecraftAccount) Handle() string     { return a.Username }
func (a *SteamAccount) PlatformID() string     { return a.ID }
func (a *SteamAccount) Handle() string         { return a.Name }

// Account returns the sub-record for a known platform, or nil.
func (u *User) Account(platform string) Account {
	switch platform {
	case PlatformDiscord:
		if u.Discord != nil {
			return u.Discord
		}
	case PlatformTwitch:
		if u.Twitch != nil {
			return u.Twitch
		}
	case PlatformMinecraft:
		if u.Minecraft != nil {
			return u.Minecraft
		}
	case PlatformSteam:
		if u.Steam != nil {
			return u.Steam
		}
	}
	return nil
}

// handleKeys is the stored key of each known sub-record's handle
var handleKeys = map[string]string{
	PlatformDiscord:   "username",
	PlatformTwitch:    "login",
	PlatformMinecraft: "username",
	PlatformSteam:     "name",
}

// SubRecordKey maps a lookup field to the key it is stored under in a known
// platform's sub-record. FieldUsername and FieldLogin both address the handle.
func SubRecordKey(platform, field string) (string, bool) {
	handle, ok := handleKeys[platform]
	if !ok {
		return "", false
	}
	switch field {
	case FieldID:
		return FieldID, true
	case FieldUsername, FieldLogin:
		return handle, true
	}
	return "", false
}

// FieldValue returns the value a GetByPlatformField lookup compares against.
// Generic platforms hold the username in Accounts.
func (u *User) FieldValue(platform, field string) (string, bool) {
	if !IsKnownPlatform(platform) {
		v, ok := u.Accounts[platform]
		return v, ok
	}
	key, ok := SubRecordKey(platform, field)
	if !ok {
		return "", false
	}
	account := u.Account(platform)
	if account == nil {
		return "", false
	}
	if key == FieldID {
		return account.PlatformID(), true
	}
	return account.Handle(), true
}

// LinkedPlatforms lists platforms present on the record, known platforms first
func (u *User) LinkedPlatforms() []string {
	var out []string
	for _, p := range KnownPlatforms {
		if u.Account(p) != nil {
			out = append(out, p)
		}
	}
	for p := range u.Accounts {
		out = append(out, p)
	}
	return out
}

// UserPatch is a shallow field-level update. Nil fields are left untouched.
type UserPatch struct {
	Discord   *DiscordAccount
	Twitch    *TwitchAccount
	Minecraft *MinecraftAccount
	Steam     *SteamAccount
	Accounts  map[string]string
}

// IsEmpty reports whether the patch would change nothing
func (p UserPatch) IsEmpty() bool {
	return p.Discord == nil && p.Twitch == nil && p.Minecraft == nil && p.Steam == nil && len(p.Accounts) == 0
}

// Apply merges the patch into u in place
func (p UserPatch) Apply(u *User) {
	if p.Discord != nil {
		u.Discord = p.Discord
	}
	if p.Twitch != nil {
		u.Twitch = p.Twitch
	}
	if p.Minecraft != nil {
		u.Minecraft = p.Minecraft
	}
	if p.Steam != nil {
		u.Steam = p.Steam
	}
	if len(p.Accounts) > 0 {
		if u.Accounts == nil {
			u.Accounts = make(map[string]string, len(p.Accounts))
		}
		maps.Copy(u.Accounts, p.Accounts)
	}
}

// PatchForAccount builds a patch that sets a single known sub-record
func PatchForAccount(account Account) (UserPatch, error) {
	var patch UserPatch
	switch a := account.(type) {
	case *DiscordAccount:
		patch.Discord = a
	case *TwitchAccount:
		patch.Twitch = a
	case *MinecraftAccount:
		patch.Minecraft = a
	case *SteamAccount:
		patch.Steam = a
	default:
		return patch, ErrInvalidPlatform
	}
	return patch, nil
}

// PlatformInfo identifies an account on an external platform in a link request
type PlatformInfo struct {
	Platform string `json:"platform" validate:"required,max=32,excludesall=\x00\n\r\t "`
	Username string `json:"username" validate:"required,max=100,excludesall=\x00\n\r\t"`
	ID       string `json:"id,omitempty" validate:"max=64"`
}
