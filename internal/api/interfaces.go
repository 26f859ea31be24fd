package api

import (
	"github.com/limbo/habitgrid/pkg/entity"
	jwtservice "github.com/limbo/habitgrid/pkg/jwt_service"
)

type JWTServiceI interface {
	GenerateToken(user *entity.User) (string, error)
	ParseToken(tokenString string) (*jwtservice.Claims, error)
}
