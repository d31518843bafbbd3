package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/daniil11ru/tracker/cli/tracker/api/dto/response"
	"github.com/daniil11ru/tracker/cli/tracker/domain"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	msgNoData          = "No data in Redis cache"
	msgRawDataMissing  = "Unable to fetch raw data"
	msgDeviceMissing   = "Device ID not provided"
	msgDeviceInvalid   = "Device ID must be a non-negative integer"
	msgDeviceNotFound  = "Device ID not found"
	msgParamsMissing   = "Required parameters not provided"
	msgStoreNotHealthy = "cache is unavailable"
)

type Handler struct {
	Query *domain.Query
}

func NewHandler(query *domain.Query) *Handler {
	return &Handler{Query: query}
}

func deviceID(c *gin.Context) (int64, bool) {
	value := strings.TrimSpace(c.Query("device_id"))
	if value == "" {
		c.String(http.StatusBadRequest, msgDeviceMissing)
		return 0, false
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		c.String(http.StatusBadRequest, msgDeviceInvalid)
		return 0, false
	}
	return id, true
}

func internalError(c *gin.Context, err error) {
	log.WithField("path", c.FullPath()).Errorf("Ошибка обработки запроса: %v", err)
	c.String(http.StatusInternalServerError, err.Error())
}

func (h *Handler) GetAllData(c *gin.Context) {
	snapshot, err := h.Query.FullDataset(c.Request.Context())
	if errors.Is(err, domain.ErrNoData) {
		log.Debug("Запрошены данные до загрузки набора")
		c.String(http.StatusNotFound, msgNoData)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) GetLatestDeviceInfo(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}

	record, err := h.Query.LatestForDevice(c.Request.Context(), id)
	if errors.Is(err, domain.ErrDeviceNotFound) {
		log.Debugf("Устройство %d не найдено", id)
		c.String(http.StatusNotFound, msgDeviceNotFound)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, record.View())
}

func (h *Handler) FetchStartEndLocation(c *gin.Context) {
	id, ok := deviceID(c)
	if !ok {
		return
	}

	start, end, err := h.Query.StartEndLocation(c.Request.Context(), id)
	switch {
	case errors.Is(err, domain.ErrDeviceNotFound):
		log.Debugf("Устройство %d не найдено", id)
		c.String(http.StatusNotFound, msgDeviceNotFound)
		return
	case errors.Is(err, domain.ErrNoData):
		log.Error("Нет снимка данных в кэше")
		c.String(http.StatusInternalServerError, msgRawDataMissing)
		return
	case err != nil:
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.StartEndLocation{StartLocation: start, EndLocation: end})
}

func (h *Handler) FetchLocationPoints(c *gin.Context) {
	startTime, endTime := c.Query("start_time"), c.Query("end_time")
	if strings.TrimSpace(c.Query("device_id")) == "" || startTime == "" || endTime == "" {
		c.String(http.StatusBadRequest, msgParamsMissing)
		return
	}
	id, ok := deviceID(c)
	if !ok {
		return
	}
	start, end, err := domain.ParseRange(startTime, endTime)
	var rangeErr *domain.InvalidRangeError
	if errors.As(err, &rangeErr) {
		c.String(http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q is not a timestamp", rangeErr.Param, rangeErr.Value))
		return
	}

	points, err := h.Query.LocationPointsInWindow(c.Request.Context(), id, start, end)
	if errors.Is(err, domain.ErrNoData) {
		log.Error("Нет снимка данных в кэше")
		c.String(http.StatusInternalServerError, msgRawDataMissing)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, points)
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.Query.Ping(c.Request.Context()); err != nil {
		log.Warnf("Проверка кэша не пройдена: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": msgStoreNotHealthy, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
