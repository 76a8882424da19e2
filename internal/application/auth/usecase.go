// Package auth implementa registro y login de usuarios: bcrypt para las
// contraseñas y JWT (con empresa y rol en los claims) para las sesiones.
package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/facturya-api/internal/application/dto"
	"github.com/tu-usuario/facturya-api/internal/domain"
	"github.com/tu-usuario/facturya-api/internal/domain/entity"
	"github.com/tu-usuario/facturya-api/internal/domain/repository"
	"github.com/tu-usuario/facturya-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, companyRepo: companyRepo, jwtCfg: jwtCfg}
}

func validRole(role string) bool {
	switch role {
	case entity.RoleAdmin, entity.RoleContable, entity.RoleVendedor:
		return true
	}
	return false
}

// normalizeEmail evita duplicados por mayúsculas o espacios accidentales.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser da de alta un usuario en una empresa existente.
// El rol por defecto es vendedor; un rol desconocido es ErrInvalidInput.
// Devuelve ErrEmailAlreadyExists si el email ya existe en esa empresa.
func (uc *AuthUseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Email = normalizeEmail(in.Email)

	if existing, _ := uc.userRepo.GetByEmailAndCompany(in.Email, in.CompanyID); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	if company, err := uc.companyRepo.GetByID(in.CompanyID); err != nil {
		return nil, err
	} else if company == nil {
		return nil, domain.ErrNotFound
	}

	user, err := uc.buildUser(in)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// buildUser arma la entidad: rol validado, password hasheado, estado activo.
func (uc *AuthUseCase) buildUser(in dto.RegisterRequest) (*entity.User, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleVendedor
	}
	if !validRole(role) {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = in.Email
	}
	now := time.Now()
	return &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Login verifica email/password y emite el JWT de sesión.
// Email desconocido y password incorrecta responden igual (ErrUnauthorized)
// para no revelar qué cuentas existen.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != "active" {
		return nil, domain.ErrForbidden
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.CompanyID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
