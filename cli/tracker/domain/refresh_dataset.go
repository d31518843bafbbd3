package domain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/daniil11ru/tracker/cli/tracker/source"
	"github.com/daniil11ru/tracker/cli/tracker/storage/cache"
	"github.com/daniil11ru/tracker/cli/tracker/types"
	cron "github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

var now = time.Now

// Notifier получатель уведомлений о загрузке
type Notifier interface {
	Save(interface{ ToBytes() ([]byte, error) }) error
}

// RefreshDataset загружает CSV из объектного хранилища и публикует его в кэш
type RefreshDataset struct {
	Source source.Object
	Bucket string
	Key    string
	Store  cache.Store

	// Notifier может отсутствовать
	Notifier Notifier

	mu            sync.Mutex
	version       int64
	cronScheduler *cron.Cron
}

// Run выполняет одну загрузку. При ошибке источника или разбора кэш не изменяется.
func (domain *RefreshDataset) Run(ctx context.Context) (types.Dataset, error) {
	domain.mu.Lock()
	defer domain.mu.Unlock()

	body, err := domain.Source.Fetch(ctx, domain.Bucket, domain.Key)
	if err != nil {
		return types.Dataset{}, &LoadError{Kind: SourceUnavailable, Err: err}
	}
	defer body.Close()

	dataset, err := Load(body)
	if err != nil {
		return types.Dataset{}, err
	}

	if err := domain.Store.Replace(ctx, dataset); err != nil {
		return types.Dataset{}, fmt.Errorf("не удалось записать набор данных в кэш: %w", err)
	}

	domain.version++
	logrus.WithFields(logrus.Fields{
		"version": domain.version,
		"records": len(dataset.Snapshot),
		"devices": dataset.Devices(),
	}).Infof("Набор данных s3://%s/%s загружен в кэш", domain.Bucket, domain.Key)

	if domain.Notifier != nil {
		event := types.LoadEvent{
			Version:  domain.version,
			Bucket:   domain.Bucket,
			Key:      domain.Key,
			Records:  len(dataset.Snapshot),
			Devices:  dataset.Devices(),
			LoadedAt: now().UTC(),
		}
		if err := domain.Notifier.Save(event); err != nil {
			logrus.Warnf("Не удалось отправить уведомление о загрузке: %v", err)
		}
	}

	return dataset, nil
}

// Initialize выполняет первую загрузку синхронно и, если задано расписание, планирует повторные.
func (domain *RefreshDataset) Initialize(ctx context.Context, schedule string) error {
	if _, err := domain.Run(ctx); err != nil {
		return err
	}

	if schedule == "" {
		return nil
	}

	domain.cronScheduler = cron.New()
	_, err := domain.cronScheduler.AddFunc(schedule, func() {
		logrus.Info("Запуск запланированной перезагрузки набора данных")
		if _, err := domain.Run(context.Background()); err != nil {
			logrus.Errorf("Ошибка перезагрузки набора данных, в кэше остаются прежние данные: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке cron-задачи: %w", err)
	}

	domain.cronScheduler.Start()
	logrus.Infof("Запланирована перезагрузка набора данных: %s", schedule)

	return nil
}

func (domain *RefreshDataset) Shutdown() {
	if domain.cronScheduler != nil {
		<-domain.cronScheduler.Stop().Done()
		logrus.Info("Cron-планировщик остановлен")
	}
}
