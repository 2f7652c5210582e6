// Package models lists the OpenAI models usable by lecteur: TTS models
// for the OpenAI speech provider and chat models for translation.
package models
