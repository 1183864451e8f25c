package resolver

import (
	"os"
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/schema"
)

func TestResolveSuicideBoundaryBehaviors(t *testing.T) {
	world := entity.NewWorld(nil)
	attacker := entity.DecodePlayerInitial(1, entity.Props{})
	attacker.LastActive = entity.InvalidHandle

	got := Resolve(Input{DamageType: Suicide, DamageBits: DamageBits(PreventPhysicsForce), Attacker: attacker, Victim: attacker, World: world, Schema: nil})
	if got.WeaponName != "player" {
		t.Fatalf("expected 'player', got %q", got.WeaponName)
	}

	got = Resolve(Input{DamageType: Suicide, Attacker: attacker, Victim: attacker, World: world, Schema: nil})
	if got.WeaponName != "world" {
		t.Fatalf("expected 'world', got %q", got.WeaponName)
	}
}

func TestResolveSentryShotPrecedence(t *testing.T) {
	world := entity.NewWorld(nil)
	attacker := entity.DecodePlayerInitial(1, entity.Props{})
	attacker.Class = entity.ClassEngineer
	victim := entity.DecodePlayerInitial(2, entity.Props{})

	shots := []SentryShot{{SentryOwnerEntityID: 42, IsMini: false, Level: 3}}
	got := Resolve(Input{
		DamageType:  Normal,
		Attacker:    attacker,
		AttackerEID: 42,
		Victim:      victim,
		World:       world,
		Schema:      nil,
		SentryShots: &shots,
	})
	if got.WeaponName != "obj_sentrygun3" {
		t.Fatalf("expected obj_sentrygun3, got %q", got.WeaponName)
	}
	if len(shots) != 0 {
		t.Fatalf("expected matched sentry shot to be popped, got %d remaining", len(shots))
	}
}

func TestResolveTauntFixedMap(t *testing.T) {
	got := Resolve(Input{DamageType: TauntHighNoon})
	if got.WeaponName != "taunt_heavy" {
		t.Fatalf("expected taunt_heavy, got %q", got.WeaponName)
	}

	got = Resolve(Input{DamageType: Telefrag})
	if got.WeaponName != "telefrag" {
		t.Fatalf("expected telefrag, got %q", got.WeaponName)
	}
}

func TestResolveBootsStompByClass(t *testing.T) {
	soldier := entity.DecodePlayerInitial(1, entity.Props{})
	soldier.Class = entity.ClassSoldier
	got := Resolve(Input{DamageType: BootsStomp, Attacker: soldier})
	if got.WeaponName != "mantreads" {
		t.Fatalf("expected mantreads, got %q", got.WeaponName)
	}

	pyro := entity.DecodePlayerInitial(1, entity.Props{})
	pyro.Class = entity.ClassPyro
	got = Resolve(Input{DamageType: BootsStomp, Attacker: pyro})
	if got.WeaponName != "rocketpack_stomp" {
		t.Fatalf("expected rocketpack_stomp, got %q", got.WeaponName)
	}
}

func TestResolveReflectedProjectileYieldsDeflectName(t *testing.T) {
	world := entity.NewWorld(nil)
	pyro := entity.DecodePlayerInitial(10, entity.Props{})
	sniper := entity.DecodePlayerInitial(20, entity.Props{})

	arrow := entity.Projectile{KindTag: entity.ProjectileArrow, Reflected: true, Owner_: pyro.Handle(), OriginalOwner: sniper.Handle()}
	explosions := []entity.Explosion{{Proj: arrow}}

	got := Resolve(Input{
		DamageType: Normal,
		Attacker:   pyro,
		Victim:     sniper,
		World:      world,
		Schema:     nil,
		Explosions: explosions,
	})
	if !got.Reflected {
		t.Fatalf("expected Reflected=true")
	}
	if got.WeaponName != "deflect_promode_arrow" {
		t.Fatalf("expected deflect_promode_arrow for an arrow with no resolvable launcher, got %q", got.WeaponName)
	}
}

func TestResolveReflectedHuntsmanArrowYieldsDeflectHuntsman(t *testing.T) {
	schemaPath := writeTestSchema(t, `{
		"result": {
			"items": [
				{"defindex": 56, "name": "Huntsman", "item_logname": "tf_projectile_arrow", "item_class": "tf_weapon_compound_bow"}
			]
		}
	}`)
	reg, err := schema.LoadFile(schemaPath)
	if err != nil {
		t.Fatalf("load test schema: %v", err)
	}

	world := entity.NewWorld(nil)
	pyro := entity.DecodePlayerInitial(10, entity.Props{})
	sniper := entity.DecodePlayerInitial(20, entity.Props{})

	arrow := entity.Projectile{
		KindTag: entity.ProjectileArrow, Reflected: true,
		Owner_: pyro.Handle(), OriginalOwner: sniper.Handle(),
		HasLauncherItemID: true, LauncherItemID: 56,
	}
	explosions := []entity.Explosion{{Proj: arrow}}

	got := Resolve(Input{
		DamageType: Normal,
		Attacker:   pyro,
		Victim:     sniper,
		World:      world,
		Schema:     reg,
		Explosions: explosions,
	})
	if got.WeaponName != "deflect_huntsman" {
		t.Fatalf("expected deflect_huntsman, got %q", got.WeaponName)
	}
}

func writeTestSchema(t *testing.T, contents string) string {
	t.Helper()
	path := t.TempDir() + "/schema.json"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write test schema: %v", err)
	}
	return path
}

func TestIsAirshot(t *testing.T) {
	p := entity.DecodePlayerInitial(1, entity.Props{})
	p.OnGround = false
	p.StartedFlying = 100
	if IsAirshot(p, 110) {
		t.Fatalf("expected no airshot at 10 ticks of flight")
	}
	if !IsAirshot(p, 200) {
		t.Fatalf("expected airshot at 100 ticks of flight")
	}
}
