package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Fixed DiceBear style parameters appended to every avatar URL.
const avatarStyleParams = "backgroundColor=b6e3f4,c0aede,d1d4f9,e0e7ff" +
	"&hair=variant01,variant02,variant03,variant04,variant05,variant06,variant07,variant08,variant09,variant10" +
	"&hairColor=0e0e0e,6b46c1,374151,991b1b,059669,dc2626" +
	"&shirt=variant01,variant02,variant03,variant04,variant05,variant06,variant07,variant08" +
	"&shirtColor=1f2937,374151,6366f1,059669,dc2626,f59e0b"

// AvatarConfig points the deriver at an avatar service.
type AvatarConfig struct {
	BaseURL string // e.g. https://api.dicebear.com/7.x
	Style   string // e.g. notionists
}

// DefaultAvatarConfig is the public DiceBear instance with the notionists style.
var DefaultAvatarConfig = AvatarConfig{
	BaseURL: "https://api.dicebear.com/7.x",
	Style:   "notionists",
}

// URL builds <base>/<style>/svg?seed=<seed>&<style params> for the seed
// picked from email, then name, then a random string.
func (c AvatarConfig) URL(email, name string) string {
	seed := email
	if seed == "" {
		seed = name
	}
	if seed == "" {
		seed = strings.ReplaceAll(uuid.NewString(), "-", "")[:11]
	}
	base := strings.TrimSuffix(c.BaseURL, "/")
	if base == "" {
		base = DefaultAvatarConfig.BaseURL
	}
	style := c.Style
	if style == "" {
		style = DefaultAvatarConfig.Style
	}
	return fmt.Sprintf("%s/%s/svg?seed=%s&%s", base, style, encodeSeed(seed), avatarStyleParams)
}

// DeriveAvatar is URL on the default config.
func DeriveAvatar(email, name string) string {
	return DefaultAvatarConfig.URL(email, name)
}

// uriComponentUnreserved restores the marks encodeURIComponent leaves alone
// but url.QueryEscape escapes, and turns "+" back into %20.
var uriComponentUnreserved = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeSeed escapes seed exactly like encodeURIComponent.
func encodeSeed(seed string) string {
	return uriComponentUnreserved.Replace(url.QueryEscape(seed))
}
