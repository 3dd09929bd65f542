package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Telegram checks WebApp initData signatures the way the Bot API defines
// them: HMAC-SHA256 over the sorted key=value lines, keyed by
// HMAC-SHA256("WebAppData", bot_token).
type Telegram struct {
	botToken string
}

func NewTelegramService(botToken string) *Telegram {
	if botToken == "" {
		log.Warn("TELEGRAM_BOT_TOKEN is empty: initData verification is DISABLED, do not run production like this")
	}
	return &Telegram{botToken: botToken}
}

func (t *Telegram) VerifyInitData(initData string) bool {
	if t.botToken == "" {
		return true
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return false
	}
	hash := values.Get("hash")
	if hash == "" {
		return false
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	dataCheckString := strings.Join(lines, "\n")

	secret := hmacSHA256([]byte("WebAppData"), []byte(t.botToken))
	calc := hex.EncodeToString(hmacSHA256(secret, []byte(dataCheckString)))

	return hmac.Equal([]byte(calc), []byte(hash))
}

func hmacSHA256(key, msg []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(msg)
	return h.Sum(nil)
}
