package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type PlayerClaims struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerId int64, username string) *PlayerClaims {
	return &PlayerClaims{
		PlayerId: playerId,
		Username: username,
	}
}

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	TokenLifetime time.Duration
}

func loadPrivateKey() (*rsa.PrivateKey, error) {
	privateKeyStr, ok := os.LookupEnv("JWT_PRIVATE_KEY")
	if ok {
		return jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyStr))
	}
	privateKeyPath, ok := os.LookupEnv("JWT_PRIVATE_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PRIVATE_KEY or JWT_PRIVATE_KEY_FILE env variable set")
	}
	privateKeyBytes, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT private key: %w", err)
	}
	return jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
}

func loadPublicKey() (*rsa.PublicKey, error) {
	publicKeyStr, ok := os.LookupEnv("JWT_PUBLIC_KEY")
	if ok {
		return jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyStr))
	}
	publicKeyPath, ok := os.LookupEnv("JWT_PUBLIC_KEY_FILE")
	if !ok {
		return nil, fmt.Errorf("no JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE env variable set")
	}
	publicKeyBytes, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read JWT public key: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
}

func NewJWT() (*JWT, error) {
	privateKey, err := loadPrivateKey()
	if err != nil {
		return nil, err
	}

	publicKey, err := loadPublicKey()
	if err != nil {
		return nil, err
	}

	return &JWT{
		privateKey:    privateKey,
		publicKey:     publicKey,
		signingMethod: jwt.GetSigningMethod("RS256"),
		TokenLifetime: time.Hour * 24 * 30,
	}, nil
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParsePlayerClaims(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&PlayerClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
