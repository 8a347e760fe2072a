package links

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultEarnKaroURL = "https://ekaro-api.affiliaters.in/api/converter/public"

// EarnKaroConverter rewrites product links through the EarnKaro public
// converter API. An empty token disables conversion: Convert then returns the
// input unchanged.
type EarnKaroConverter struct {
	apiURL string
	token  string
	client *http.Client
	logger *zap.Logger
}

func NewEarnKaroConverter(apiURL, token string, timeout time.Duration, logger *zap.Logger) *EarnKaroConverter {
	if apiURL == "" {
		apiURL = defaultEarnKaroURL
	}
	return &EarnKaroConverter{
		apiURL: strings.TrimRight(apiURL, "/"),
		token:  token,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type convertRequest struct {
	Deal          string `json:"deal"`
	ConvertOption string `json:"convert_option"`
}

type convertResponse struct {
	Success int    `json:"success"`
	Data    string `json:"data"`
	Message string `json:"message"`
}

func (c *EarnKaroConverter) Convert(ctx context.Context, rawURL string) (string, error) {
	if c.token == "" {
		return rawURL, nil
	}

	body, err := json.Marshal(convertRequest{Deal: rawURL, ConvertOption: "convert_only"})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Content-Type", "application/json")

	start := time.Now()
	response, err := c.client.Do(request)
	if err != nil {
		c.logger.Warn("affiliate conversion request failed", zap.String("url", rawURL), zap.Error(err))
		return "", err
	}
	defer response.Body.Close()

	c.logger.Debug(
		"affiliate conversion complete",
		zap.String("url", rawURL),
		zap.Int("status", response.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf("earnkaro: status %d", response.StatusCode)
	}

	var payload convertResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Success != 1 || payload.Data == "" {
		return "", fmt.Errorf("earnkaro: conversion rejected: %s", payload.Message)
	}

	return strings.TrimSpace(payload.Data), nil
}
