// Package cexio implements a client for the CEX.io HTTP API.
//
// The package includes:
//   - Protocol: endpoint table, URL composition and response decoding
//   - Client: one method per endpoint returning the decoded JSON, signing private calls
//   - Exchange: typed wrapper implementing exchange.Exchange on top of Client
//   - Normalizer: conversion from CEX.io payloads to canonical core types
//
// Example usage:
//
//	cfg := core.DefaultConfig().WithCredentials(&core.Credentials{
//		Username:  "user",
//		APIKey:    "key",
//		APISecret: "secret",
//	})
//	client, err := cexio.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	ticker, err := client.Ticker(ctx, "BTC/USD")
package cexio
