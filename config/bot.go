package config

import "time"

// BotDifficulty affects how often a bot pulls the trigger and how well it aims
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	BurstLength    int           // Primary shots per burst
	BurstPause     time.Duration // Pause between bursts
	SecondaryEvery int           // Lob a secondary shot every N bursts, 0 never
	AimJitter      float64       // Max yaw error in degrees
	TurnRate       float64       // Degrees of yaw per second while strafing
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	PoseRate     int // Pose updates per second
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot client configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		PoseRate: 30,
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				BurstLength:    3,
				BurstPause:     1500 * time.Millisecond,
				SecondaryEvery: 0,
				AimJitter:      12,
				TurnRate:       30,
			},
			BotDifficultyNormal: {
				BurstLength:    6,
				BurstPause:     800 * time.Millisecond,
				SecondaryEvery: 4,
				AimJitter:      6,
				TurnRate:       60,
			},
			BotDifficultyHard: {
				BurstLength:    12,
				BurstPause:     400 * time.Millisecond,
				SecondaryEvery: 2,
				AimJitter:      2,
				TurnRate:       90,
			},
		},
	}
}

// ParseBotDifficulty maps a flag value to a difficulty, defaulting to normal.
func ParseBotDifficulty(s string) BotDifficulty {
	switch s {
	case "easy":
		return BotDifficultyEasy
	case "hard":
		return BotDifficultyHard
	default:
		return BotDifficultyNormal
	}
}
