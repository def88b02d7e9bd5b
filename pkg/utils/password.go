package utils

import "crypto/rand"

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// PasswordLength 与历史行为一致的 13 位小写字母数字串
const PasswordLength = 13

// RandomPassword 生成随机初始口令（非安全凭证，见产品侧说明）
func RandomPassword() string {
	b := make([]byte, PasswordLength)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = passwordAlphabet[int(b[i])%len(passwordAlphabet)]
	}
	return string(b)
}
