package server

import (
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"scory/internal/apperr"
	"scory/internal/db"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 20
	minPasswordLength = 8
	minGameNameLength = 3
	maxGameNameLength = 100
	roomCodeLength    = 6
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("gametype", func(fl validator.FieldLevel) bool {
			return db.ValidGameType(fl.Field().String())
		})
		_ = engine.RegisterValidation("gamestatus", func(fl validator.FieldLevel) bool {
			return db.ValidStatus(fl.Field().String())
		})
		_ = engine.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return validUsername(fl.Field().String())
		})
		_ = engine.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			return len(fl.Field().String()) == roomCodeLength
		})
	})
}

func validUsername(name string) bool {
	if len(name) < minUsernameLength || len(name) > maxUsernameLength {
		return false
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '_' {
			continue
		}
		return false
	}
	return true
}

// parseIDParam reads a numeric path parameter, rejecting anything that is not
// a positive integer.
func parseIDParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, apperr.New(apperr.KindValidation, "invalid game id")
	}
	return uint(value), nil
}
