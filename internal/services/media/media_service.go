package media

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/rajivgeraev/skillswap-api/internal/config"
	"github.com/rajivgeraev/skillswap-api/internal/ledger"
	"github.com/rajivgeraev/skillswap-api/internal/middleware"
	"github.com/rajivgeraev/skillswap-api/internal/utils"
)

// MediaService выдаёт подписанные параметры прямой загрузки фото профиля в Cloudinary
type MediaService struct {
	cfg        config.CloudinaryConfig
	enabled    bool
	ledger     *ledger.Ledger
	jwtService *utils.JWTService
	log        *zap.Logger
	now        func() time.Time
}

// NewMediaService создает новый экземпляр MediaService
func NewMediaService(cfg *config.Config, l *ledger.Ledger, jwtService *utils.JWTService, log *zap.Logger) *MediaService {
	return &MediaService{
		cfg:        cfg.CloudinaryConfig,
		enabled:    cfg.CloudinaryEnabled(),
		ledger:     l,
		jwtService: jwtService,
		log:        log.Named("media"),
		now:        time.Now,
	}
}

// UploadParams - всё, что нужно клиенту для подписанной загрузки
type UploadParams struct {
	Timestamp string `json:"timestamp"`
	Signature string `json:"signature"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
	PublicID  string `json:"public_id"`
	Overwrite bool   `json:"overwrite"`
	UploadURL string `json:"upload_url"`
}

// SignUpload подписывает загрузку фото для пользователя.
// Фото хранится под public_id пользователя и перезаписывается при повторной загрузке.
func (s *MediaService) SignUpload(userID string) (UploadParams, error) {
	timestamp := strconv.FormatInt(s.now().Unix(), 10)

	params := url.Values{}
	params.Set("timestamp", timestamp)
	params.Set("folder", s.cfg.UploadFolder)
	params.Set("public_id", userID)
	params.Set("overwrite", "true")

	signature, err := api.SignParameters(params, s.cfg.APISecret)
	if err != nil {
		return UploadParams{}, fmt.Errorf("ошибка подписи параметров загрузки: %w", err)
	}

	return UploadParams{
		Timestamp: timestamp,
		Signature: signature,
		APIKey:    s.cfg.APIKey,
		CloudName: s.cfg.CloudName,
		Folder:    s.cfg.UploadFolder,
		PublicID:  userID,
		Overwrite: true,
		UploadURL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", s.cfg.CloudName),
	}, nil
}

// GenerateUploadParams создаёт параметры для загрузки фото профиля
func (s *MediaService) GenerateUploadParams(c fiber.Ctx) error {
	if !s.enabled {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Загрузка фото не настроена"})
	}

	params, err := s.SignUpload(middleware.UserID(c))
	if err != nil {
		s.log.Error("Ошибка подписи загрузки", zap.Error(err))
		return utils.ErrorResponse(c, err)
	}
	return c.JSON(params)
}

// SetProfilePhoto сохраняет URL загруженного фото в профиле
func (s *MediaService) SetProfilePhoto(c fiber.Ctx) error {
	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный URL фото"})
	}
	if s.enabled && !s.ownsURL(req.URL) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Фото должно быть загружено в Cloudinary"})
	}

	user, err := s.ledger.SetProfilePhoto(middleware.UserID(c), req.URL)
	if err != nil {
		return utils.ErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (s *MediaService) ownsURL(raw string) bool {
	return strings.HasPrefix(raw, "https://res.cloudinary.com/"+s.cfg.CloudName+"/")
}
