package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "guitarist", false},
		{"valid with digits", "bass4sale", false},
		{"valid with separators", "drum.seller_01", false},
		{"empty", "", true},
		{"too short", "ab", true},
		{"starts with digit", "1guitar", true},
		{"trailing dot", "seller.", true},
		{"contains space", "my shop", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateNickname(t *testing.T) {
	assert.NoError(t, ValidateNickname("기타장인"))
	assert.Error(t, ValidateNickname(""))
	assert.Error(t, ValidateNickname("   "))
	assert.Error(t, ValidateNickname("아주아주아주아주아주아주아주아주아주아주긴이름"))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		wantErr  bool
	}{
		{"valid", "Str0ng!Passw0rd", "seller", false},
		{"too short", "Sh0rt!pw", "seller", true},
		{"no upper", "weakpassw0rd!!", "seller", true},
		{"no special", "Weakpassword12", "seller", true},
		{"contains username", "Seller!Passw0rd", "seller", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!Passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Passw0rd", hash)

	assert.True(t, VerifyPassword(hash, "Str0ng!Passw0rd"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
	assert.False(t, VerifyPassword("", "Str0ng!Passw0rd"))

	_, err = HashPassword("")
	assert.Error(t, err)
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "guitarist", NormalizeUsername("  Guitarist "))
}

func TestValidateRoleAndStatus(t *testing.T) {
	assert.NoError(t, ValidateRole(RoleUser))
	assert.NoError(t, ValidateRole(RoleAdmin))
	assert.Error(t, ValidateRole(Role("OPERATOR")))

	assert.NoError(t, ValidateStatus(StatusActive))
	assert.Error(t, ValidateStatus(Status("BANNED")))
}
