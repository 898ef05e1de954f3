package minio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/cfg"
	"github.com/Sidharth-Chirathazha/order-app-backend/internal/domain"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const mailContentType = "message/rfc822"

// MailArchiveRepo хранит обработанные письма подтверждения в MinIO.
type MailArchiveRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewMailArchiveRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *MailArchiveRepo {
	return &MailArchiveRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Store сохраняет исходное письмо (RFC 822) под кодом заказа и возвращает ключ объекта.
func (m *MailArchiveRepo) Store(ctx context.Context, email *domain.InboundEmail, orderCode string) (string, error) {
	objKey := fmt.Sprintf("confirmations/%s/%s.eml", orderCode, uuid.NewString())
	reader := bytes.NewReader(email.Raw)

	info, err := m.mc.PutObject(ctx, m.cfg.BucketName, objKey, reader, int64(len(email.Raw)), minio.PutObjectOptions{
		ContentType: mailContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}
