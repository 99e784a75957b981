package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/pkg/config"
	"github.com/jhoicas/stock-sync/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login de operadores de la consola.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// EnsureOperators da de alta las cuentas de la configuración si aún no existen:
// el superusuario como admin y el usuario limitado por defecto como operator.
// Las contraseñas se guardan con bcrypt; una cuenta existente no se toca.
func (uc *AuthUseCase) EnsureOperators(ctx context.Context, cfg config.OperatorsConfig) error {
	accounts := []struct{ username, password, role string }{
		{cfg.SuperuserUsername, cfg.SuperuserPassword, entity.RoleAdmin},
		{cfg.LimitedUsername, cfg.LimitedPassword, entity.RoleOperator},
	}
	for _, a := range accounts {
		if strings.TrimSpace(a.username) == "" || a.password == "" {
			continue
		}
		existing, err := uc.userRepo.FindByUsername(ctx, a.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		user, err := NewUser(a.username, a.password, a.role)
		if err != nil {
			return err
		}
		if err := uc.userRepo.Create(ctx, user); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	return nil
}

// Login verifica usuario/password (usuario sin distinguir mayúsculas), genera JWT y retorna token + operador.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// NewUser operador con la contraseña hasheada.
func NewUser(username, password, role string) (*entity.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}, nil
}

// ToUserResponse salida sin hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
