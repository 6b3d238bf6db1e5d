package config

import (
	"image/color"
	"time"

	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
)

// WeaponConfig contains tuning for one projectile weapon
type WeaponConfig struct {
	Name string

	// Payload
	Damage int

	// Firing
	Rate float64 // Accepted shots per second, per player

	// Trajectory
	Speed      float64 // Metres per second along the muzzle forward axis
	TimeToLive float64 // Seconds before an unresolved projectile is removed
	Gravity    float64 // Downward acceleration, 0 for a straight shot

	// Impact
	DestroyTime float64 // Grace seconds between impact and removal
	SplatScale  float64 // Decal scale requested on impact
	Radius      float64 // Collision radius of the projectile body

	// Muzzle offset local to the dominant hand
	MuzzleOffset gamemath.Vec3
}

// Cooldown returns the minimum spacing between accepted shots.
func (w WeaponConfig) Cooldown() time.Duration {
	if w.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / w.Rate)
}

// Lifetime returns TimeToLive as a duration.
func (w WeaponConfig) Lifetime() time.Duration {
	return seconds(w.TimeToLive)
}

// Grace returns DestroyTime as a duration.
func (w WeaponConfig) Grace() time.Duration {
	return seconds(w.DestroyTime)
}

// HealthConfig contains player health configuration
type HealthConfig struct {
	Max          int
	RespawnDelay time.Duration
}

// KnifeConfig contains instant-hit melee configuration
type KnifeConfig struct {
	Damage      int
	Reach       float64       // Ray length from the hand along its up axis
	BackOffset  float64       // Ray starts this far behind the hand
	HitCooldown time.Duration // Minimum spacing between hits on the same target
	SplatScale  float64
}

// BodyConfig contains collision body dimensions (metres, floor plane)
type BodyConfig struct {
	PlayerWidth  float64
	PlayerDepth  float64
	PlayerHeight float64
	ShieldWidth  float64
	ShieldDepth  float64
	ShieldHeight float64 // Vertical extent centred on the support hand
}

// ArenaConfig contains arena loading configuration
type ArenaConfig struct {
	LevelsDir    string // Directory holding arenas/*.tmx, empty for the embedded set
	DefaultLevel string
	TileSize     float64 // Metres per TMX tile
	SpaceCell    int     // resolv cell size in space units
	SpaceScale   float64 // resolv space units per metre
	FallbackSize float64 // Side of the square arena used when no level is loaded
}

// NetConfig contains server networking configuration
type NetConfig struct {
	Port           uint
	TickRate       int
	ServerName     string
	Version        string
	MaxPlayers     int
	HeartbeatEvery time.Duration
}

// DebugConfig contains debug/testing options
type DebugConfig struct {
	LogHits  bool // Log every resolved hit
	LogFires bool // Log every accepted and rejected fire command
}

// Global configuration instances
var Weapons [netconfig.SlotCount]WeaponConfig
var Health HealthConfig
var Knife KnifeConfig
var Body BodyConfig
var Arena ArenaConfig
var Net NetConfig
var Debug DebugConfig

// EnemyColor is the paint the authority stamps on projectiles and knife
// splats it reports.
var EnemyColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

func init() {
	// Weapon Config
	Weapons[netconfig.SlotPrimary] = WeaponConfig{
		Name:         "paint rifle",
		Damage:       10,
		Rate:         20,
		Speed:        50,
		TimeToLive:   2,
		Gravity:      0,
		DestroyTime:  0,
		SplatScale:   1.0,
		Radius:       0.05,
		MuzzleOffset: gamemath.Vec3{Y: 0.05, Z: 0.25},
	}
	Weapons[netconfig.SlotSecondary] = WeaponConfig{
		Name:         "paint lobber",
		Damage:       35,
		Rate:         2,
		Speed:        18,
		TimeToLive:   3,
		Gravity:      9.81,
		DestroyTime:  0.5,
		SplatScale:   3.0,
		Radius:       0.12,
		MuzzleOffset: gamemath.Vec3{Y: 0.05, Z: 0.3},
	}

	// Health Config
	Health = HealthConfig{
		Max:          100,
		RespawnDelay: 3 * time.Second,
	}

	// Knife Config
	Knife = KnifeConfig{
		Damage:      100,
		Reach:       0.65,
		BackOffset:  0.2,
		HitCooldown: 500 * time.Millisecond,
		SplatScale:  0.5,
	}

	// Body Config
	Body = BodyConfig{
		PlayerWidth:  0.5,
		PlayerDepth:  0.5,
		PlayerHeight: 1.8,
		ShieldWidth:  0.6,
		ShieldDepth:  0.1,
		ShieldHeight: 0.8,
	}

	// Arena Config
	Arena = ArenaConfig{
		LevelsDir:    "",
		DefaultLevel: "warehouse",
		TileSize:     1.0,
		SpaceCell:    16,
		SpaceScale:   16,
		FallbackSize: 40,
	}

	// Net Config
	Net = NetConfig{
		Port:           7373,
		TickRate:       30,
		ServerName:     "Splat Arena",
		MaxPlayers:     8,
		HeartbeatEvery: 30 * time.Second,
	}
}

// Weapon returns the configuration for a slot and whether the slot exists.
func Weapon(slot netconfig.WeaponSlot) (WeaponConfig, bool) {
	if !slot.Valid() {
		return WeaponConfig{}, false
	}
	return Weapons[slot], true
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
