package gamemath

// Pose is a position and orientation, e.g. a tracked hand or a weapon muzzle.
type Pose struct {
	Position Vec3
	Rotation Quat
}

// MuzzlePose returns the world pose of a muzzle mounted at offset (local to
// the hand) on a hand with the given world pose.
func MuzzlePose(hand Pose, offset Vec3) Pose {
	rot := hand.Rotation.Normalized()
	return Pose{
		Position: hand.Position.Add(rot.Rotate(offset)),
		Rotation: rot,
	}
}

// LaunchVelocity returns the initial velocity of a projectile leaving a
// muzzle at the given speed.
func LaunchVelocity(muzzle Pose, speed float64) Vec3 {
	return muzzle.Rotation.Normalized().Forward().Scale(speed)
}

// Step advances a ballistic position by dt seconds under downward gravity and
// returns the new position and velocity.
func Step(pos, vel Vec3, gravity, dt float64) (Vec3, Vec3) {
	vel.Y -= gravity * dt
	return pos.Add(vel.Scale(dt)), vel
}
