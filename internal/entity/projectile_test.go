package entity

import "testing"

type fakeWorldView struct {
	weaponOwners map[Handle]int
	players      map[int]*Player
	sentry       Handle
	haveSentry   bool
}

func (f *fakeWorldView) WeaponOwnerUserID(h Handle) (int, bool) {
	uid, ok := f.weaponOwners[h]
	return uid, ok
}

func (f *fakeWorldView) PlayerByUserID(userID int) (*Player, bool) {
	p, ok := f.players[userID]
	return p, ok
}

func (f *fakeWorldView) SentryAt(point Vec3) (Handle, bool) {
	return f.sentry, f.haveSentry
}

func TestProjectileOwnerResolutionPrecedence(t *testing.T) {
	sniper := &Player{handle: 7}
	world := &fakeWorldView{
		weaponOwners: map[Handle]int{100: 5},
		players:      map[int]*Player{5: sniper},
	}

	// Explicit owner wins over everything.
	pr := DecodeProjectileInitial(1, "CTFProjectile_Arrow", Props{}, Handle(9), Handle(100), LauncherInfo{}, false, 0, world)
	if pr.Owner_ != 9 {
		t.Fatalf("Owner = %v, want explicit owner 9", pr.Owner_)
	}

	// No explicit owner: falls through to original-launcher -> weapon-owner
	// map -> player resolution.
	pr2 := DecodeProjectileInitial(1, "CTFProjectile_Arrow", Props{}, InvalidHandle, Handle(100), LauncherInfo{}, false, 0, world)
	if pr2.Owner_ != sniper.handle {
		t.Fatalf("Owner = %v, want resolved player handle %v", pr2.Owner_, sniper.handle)
	}
	if pr2.OriginalOwner != pr2.Owner_ {
		t.Fatalf("OriginalOwner should equal Owner at birth")
	}
}

func TestSentryRocketAdoptsSentryOwner(t *testing.T) {
	engineer := &Player{handle: 3}
	world := &fakeWorldView{
		weaponOwners: map[Handle]int{200: 11},
		players:      map[int]*Player{11: engineer},
		sentry:       Handle(200),
		haveSentry:   true,
	}

	pr := DecodeProjectileInitial(1, "CTFProjectile_SentryRocket", Props{}, InvalidHandle, InvalidHandle, LauncherInfo{}, false, 0, world)
	if !pr.IsSentry {
		t.Fatalf("expected IsSentry=true")
	}
	if pr.Owner_ != engineer.handle {
		t.Fatalf("Owner = %v, want engineer handle %v", pr.Owner_, engineer.handle)
	}
	if pr.KindTag != ProjectileSentryRocket {
		t.Fatalf("KindTag = %v, want ProjectileSentryRocket", pr.KindTag)
	}
}

func TestReflectedProjectileKeepsOriginalOwnerDistinct(t *testing.T) {
	world := &fakeWorldView{weaponOwners: map[Handle]int{}, players: map[int]*Player{}}
	pr := DecodeProjectileInitial(1, "CTFProjectile_Arrow", Props{}, Handle(50), InvalidHandle, LauncherInfo{}, false, 0, world)

	deflector := Handle(60)
	mismatch, _ := pr.Apply(ProjectilePatch{Deflected: boolPtr(true), DeflectOwner: &deflector}, world)
	_ = mismatch
	if pr.Owner_ != deflector {
		t.Fatalf("Owner after reflect = %v, want %v", pr.Owner_, deflector)
	}
	if pr.OriginalOwner == pr.Owner_ {
		t.Fatalf("OriginalOwner must remain distinct from post-reflect owner")
	}
	if !pr.Reflected {
		t.Fatalf("expected Reflected=true")
	}
}
