package password

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Blacklist struct {
	mu   sync.RWMutex
	data map[string]struct{}
}

func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	if strings.TrimSpace(path) == "" {
		return bl, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		bl.add(sc.Text())
	}
	return bl, sc.Err()
}

// commonPasswords es una lista corta embebida; LoadBlacklist permite una completa.
var commonPasswords = []string{
	"password", "password1", "12345678", "123456789", "1234567890", "qwerty123",
	"qwertyuiop", "iloveyou", "sunshine", "princess", "football", "baseball",
	"welcome1", "letmein1", "admin123", "passw0rd", "trustno1", "superman",
	"abc12345", "11111111", "00000000", "dragon12", "monkey12", "starwars",
}

// CommonPasswords retorna una Blacklist con las contraseñas más comunes.
func CommonPasswords() *Blacklist {
	bl := &Blacklist{data: map[string]struct{}{}}
	for _, s := range commonPasswords {
		bl.add(s)
	}
	return bl
}

// Merge agrega las entradas de other.
func (b *Blacklist) Merge(other *Blacklist) {
	if b == nil || other == nil {
		return
	}
	other.mu.RLock()
	defer other.mu.RUnlock()
	b.mu.Lock()
	for k := range other.data {
		b.data[k] = struct{}{}
	}
	b.mu.Unlock()
}

func (b *Blacklist) add(line string) {
	s := strings.TrimSpace(strings.ToLower(line))
	if s != "" && !strings.HasPrefix(s, "#") {
		b.data[s] = struct{}{}
	}
}

func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	p := strings.ToLower(strings.TrimSpace(pwd))
	b.mu.RLock()
	_, ok := b.data[p]
	b.mu.RUnlock()
	return ok
}
