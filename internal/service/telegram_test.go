package service

import (
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func signInitData(botToken string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+params[k])
	}
	secret := hmacSHA256([]byte("WebAppData"), []byte(botToken))
	hash := hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(lines, "\n"))))

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	c := qt.New(t)

	const botToken = "12345:test-bot-token"
	tg := NewTelegramService(botToken)

	params := map[string]string{
		"auth_date": "1700000000",
		"query_id":  "AAF3Xc0JAAA",
		"user":      `{"id":123456,"first_name":"Ann"}`,
	}
	initData := signInitData(botToken, params)

	c.Assert(tg.VerifyInitData(initData), qt.IsTrue)
}

func TestVerifyInitDataTampered(t *testing.T) {
	c := qt.New(t)

	const botToken = "12345:test-bot-token"
	tg := NewTelegramService(botToken)

	initData := signInitData(botToken, map[string]string{
		"auth_date": "1700000000",
		"user":      `{"id":123456}`,
	})

	values, err := url.ParseQuery(initData)
	c.Assert(err, qt.IsNil)
	values.Set("user", `{"id":999999}`)

	c.Assert(tg.VerifyInitData(values.Encode()), qt.IsFalse)
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	c := qt.New(t)

	initData := signInitData("12345:test-bot-token", map[string]string{"auth_date": "1"})
	tg := NewTelegramService("67890:other-token")

	c.Assert(tg.VerifyInitData(initData), qt.IsFalse)
}

func TestVerifyInitDataMissingHash(t *testing.T) {
	c := qt.New(t)

	tg := NewTelegramService("12345:test-bot-token")
	c.Assert(tg.VerifyInitData("auth_date=1&user=x"), qt.IsFalse)
	c.Assert(tg.VerifyInitData("%zz"), qt.IsFalse)
}

func TestVerifyInitDataPermissiveWithoutToken(t *testing.T) {
	c := qt.New(t)

	tg := NewTelegramService("")
	c.Assert(tg.VerifyInitData("anything"), qt.IsTrue)
}
