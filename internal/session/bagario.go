package session

import (
	"math"
	"sort"

	"github.com/l1jgo/arcade-server/internal/component"
	"github.com/l1jgo/arcade-server/internal/ecs"
	"github.com/l1jgo/arcade-server/internal/event"
	"github.com/l1jgo/arcade-server/internal/protocol"
	"github.com/l1jgo/arcade-server/internal/snapshot"
	"github.com/l1jgo/arcade-server/internal/system"
)

const (
	bagarioStartMass   = 20.0
	bagarioEjectAmount = 14.0
	bagarioEjectMass   = 10.0
	bagarioEjectSpeed  = 600.0
	bagarioSplitWindow = 10.0 // MergeTimer duration before split halves can re-merge
	bagarioSplitKick   = 400.0
	leaderboardSize    = 10
)

// BagarioSession is one cell-eating match: one world, the Bagario system
// pipeline (movement-target steering, mass-derived speed/radius, circle
// collision/eating/merging, virus feeding), and per-player cell tracking
// since a player may own more than one cell after a split.
type BagarioSession struct {
	world  *ecs.World
	bus    *event.Bus
	runner *system.Runner

	position    *ecs.Store[component.Position]
	velocity    *ecs.Store[component.Velocity]
	collider    *ecs.Store[component.CircleCollider]
	control     *ecs.Store[component.Controllable]
	target      *ecs.Store[component.MovementTarget]
	mass        *ecs.Store[component.Mass]
	playerCell  *ecs.Store[component.PlayerCell]
	cellOwner   *ecs.Store[component.CellOwner]
	mergeTimer  *ecs.Store[component.MergeTimer]
	splitVel    *ecs.Store[component.SplitVelocity]
	food        *ecs.Store[component.Food]
	ejected     *ecs.Store[component.EjectedMass]
	virus       *ecs.Store[component.Virus]
	player      *ecs.Store[component.Player]
	networkId   *ecs.Store[component.NetworkId]
	toDestroy   *ecs.Store[component.ToDestroy]

	destroySystem *system.DestroySystem

	cellsByPlayer map[uint32][]ecs.EntityID
	playerSeq     map[uint32]uint16
	playerNames   map[uint32]string
	tickCount     uint64
	snapshotAccum float32
	mapWidth, mapHeight float32

	out outboundBuffers
}

// NewBagarioSession builds a fresh Bagario world of the given size,
// seeded with food and viruses per the requested counts.
func NewBagarioSession(width, height float32, foodCount, virusCount int) *BagarioSession {
	s := &BagarioSession{
		world:  ecs.NewWorld(),
		bus:    event.NewBus(),
		runner: system.NewRunner(),
		cellsByPlayer: make(map[uint32][]ecs.EntityID),
		playerSeq:     make(map[uint32]uint16),
		playerNames:   make(map[uint32]string),
		mapWidth: width, mapHeight: height,
	}

	s.position = ecs.NewStore[component.Position]()
	s.velocity = ecs.NewStore[component.Velocity]()
	s.collider = ecs.NewStore[component.CircleCollider]()
	s.control = ecs.NewStore[component.Controllable]()
	s.target = ecs.NewStore[component.MovementTarget]()
	s.mass = ecs.NewStore[component.Mass]()
	s.playerCell = ecs.NewStore[component.PlayerCell]()
	s.cellOwner = ecs.NewStore[component.CellOwner]()
	s.mergeTimer = ecs.NewStore[component.MergeTimer]()
	s.splitVel = ecs.NewStore[component.SplitVelocity]()
	s.food = ecs.NewStore[component.Food]()
	s.ejected = ecs.NewStore[component.EjectedMass]()
	s.virus = ecs.NewStore[component.Virus]()
	s.player = ecs.NewStore[component.Player]()
	s.networkId = ecs.NewStore[component.NetworkId]()
	s.toDestroy = ecs.NewStore[component.ToDestroy]()

	reg := s.world.Registry()
	reg.Register(s.position)
	reg.Register(s.velocity)
	reg.Register(s.collider)
	reg.Register(s.control)
	reg.Register(s.target)
	reg.Register(s.mass)
	reg.Register(s.playerCell)
	reg.Register(s.cellOwner)
	reg.Register(s.mergeTimer)
	reg.Register(s.splitVel)
	reg.Register(s.food)
	reg.Register(s.ejected)
	reg.Register(s.virus)
	reg.Register(s.player)
	reg.Register(s.networkId)
	reg.Register(s.toDestroy)

	s.destroySystem = system.NewDestroySystem(s.world)

	// Registration order is execution order (spec §4.1/§4.8): steer
	// toward target, integrate, resync radius/speed from mass, resolve
	// circle collisions/eating/merging, feed viruses, clamp to bounds,
	// decay timers, then the terminal destroy flush.
	s.runner.Register(system.NewMovementTargetSystem(s.position, s.target, s.control, s.velocity, s.splitVel))
	s.runner.Register(system.NewPhysiqueSystem(s.position, s.velocity))
	s.runner.Register(system.NewMassSystem(s.mass, s.collider, s.control))
	s.runner.Register(system.NewCollisionCircleSystem(s.bus, s.position, s.collider, s.velocity, s.playerCell, s.cellOwner, s.mass, s.mergeTimer, s.food, s.ejected, s.virus, s.toDestroy))
	s.runner.Register(system.NewEjectedMassVsVirusSystem(s.position, s.velocity, s.collider, s.ejected, s.virus, s.toDestroy))
	s.runner.Register(system.NewMapBoundsSystem(s.position, width, height))
	s.runner.Register(system.NewEjectedMassSystem(s.ejected, s.toDestroy))
	s.runner.Register(system.NewMergeTimerSystem(s.mergeTimer))
	s.runner.Register(s.destroySystem)

	s.subscribeOutbound()
	s.seedFood(foodCount)
	s.seedViruses(virusCount)
	return s
}

func (s *BagarioSession) subscribeOutbound() {
	event.Subscribe(s.bus, func(ev event.CellMergedEvent) {
		pl := protocol.ServerCellMergePayload{SurvivorID: uint32(ev.Survivor.Index()), AbsorbedID: uint32(ev.Absorbed.Index())}
		s.out.cellMerges = append(s.out.cellMerges, frame(protocol.ServerCellMerge, pl.Encode()))
		s.dropCell(ev.Absorbed)
	})
	event.Subscribe(s.bus, func(ev event.CellAteCellEvent) {
		owner, ok := s.cellOwner.Get(ev.Eaten)
		if !ok {
			s.dropCell(ev.Eaten)
			return
		}
		mass, _ := s.mass.Get(ev.Eater)
		finalMass := float32(0)
		if mass != nil {
			finalMass = mass.Value
		}
		eaterOwner, _ := s.cellOwner.Get(ev.Eater)
		killerID := uint32(0)
		if eaterOwner != nil {
			killerID = eaterOwner.OwnerID
		}
		s.dropCell(ev.Eaten)
		if len(s.cellsByPlayer[owner.OwnerID]) == 0 {
			pl := protocol.ServerPlayerEatenPayload{PlayerID: owner.OwnerID, KillerID: killerID, FinalMass: finalMass}
			s.out.playerEaten = append(s.out.playerEaten, frame(protocol.ServerPlayerEaten, pl.Encode()))
		}
	})
	event.Subscribe(s.bus, func(ev event.CellHitVirusEvent) {
		mass, ok := s.mass.Get(ev.Cell)
		if !ok {
			return
		}
		s.splitCell(ev.Cell, *mass)
		s.world.MarkForDestruction(ev.Virus)
	})
}

func (s *BagarioSession) dropCell(cell ecs.EntityID) {
	owner, ok := s.cellOwner.Get(cell)
	s.world.MarkForDestruction(cell)
	if !ok {
		return
	}
	cells := s.cellsByPlayer[owner.OwnerID]
	for i, c := range cells {
		if c == cell {
			s.cellsByPlayer[owner.OwnerID] = append(cells[:i], cells[i+1:]...)
			break
		}
	}
}

// AddPlayer spawns a single starting cell for id at a random-ish
// position derived from the player count so far.
func (s *BagarioSession) AddPlayer(id uint32, name string, skinID uint8) {
	n := len(s.cellsByPlayer)
	x := float32((n*137)%int(s.mapWidth-100)) + 50
	y := float32((n*271)%int(s.mapHeight-100)) + 50
	ent := s.spawnCell(id, component.Position{X: x, Y: y}, bagarioStartMass, true)
	s.player.Set(ent, &component.Player{ID: id, Name: name})
	s.playerNames[id] = name
	s.networkId.Set(ent, &component.NetworkId{Value: id})
	pl := protocol.ServerEntitySpawnPayload{
		EntityID: uint32(ent.Index()), EntityType: protocol.EntityPlayerCell,
		SpawnX: x, SpawnY: y, Extra: bagarioStartMass, Color: uint32(skinID), OwnerID: id,
	}
	s.out.spawns = append(s.out.spawns, frame(protocol.ServerEntitySpawn, pl.Encode()))
}

func (s *BagarioSession) spawnCell(owner uint32, pos component.Position, mass float32, canMergeImmediately bool) ecs.EntityID {
	ent := s.world.SpawnEntity()
	s.position.Set(ent, &pos)
	s.velocity.Set(ent, &component.Velocity{})
	s.collider.Set(ent, &component.CircleCollider{Radius: component.MassToRadius(mass)})
	s.control.Set(ent, &component.Controllable{Speed: component.MassToSpeed(mass)})
	s.target.Set(ent, &component.MovementTarget{X: pos.X, Y: pos.Y})
	s.mass.Set(ent, &component.Mass{Value: mass})
	s.playerCell.Set(ent, &component.PlayerCell{})
	s.cellOwner.Set(ent, &component.CellOwner{OwnerID: owner})
	s.mergeTimer.Set(ent, &component.MergeTimer{TimeRemaining: bagarioSplitWindow, CanMerge: canMergeImmediately})
	s.cellsByPlayer[owner] = append(s.cellsByPlayer[owner], ent)
	return ent
}

// RemovePlayer destroys every cell owned by id.
func (s *BagarioSession) RemovePlayer(id uint32) {
	for _, cell := range s.cellsByPlayer[id] {
		pos, _ := s.position.Get(cell)
		var x, y float32
		if pos != nil {
			x, y = pos.X, pos.Y
		}
		s.world.MarkForDestruction(cell)
		pl := protocol.ServerEntityDestroyPayload{EntityID: uint32(cell.Index()), Reason: protocol.DestroyDisconnected, PositionX: x, PositionY: y}
		s.out.destroys = append(s.out.destroys, frame(protocol.ServerEntityDestroy, pl.Encode()))
	}
	s.world.FlushDestroyQueue()
	delete(s.cellsByPlayer, id)
	delete(s.playerSeq, id)
	delete(s.playerNames, id)
}

// HandleInput sets every cell id owns toward the decoded world-space
// target carried by CLIENT_INPUT's float payload.
func (s *BagarioSession) HandleInput(id uint32, in protocol.ClientInputPayload) {
	for _, cell := range s.cellsByPlayer[id] {
		if tgt, ok := s.target.Get(cell); ok {
			tgt.X, tgt.Y = in.TargetX, in.TargetY
		}
	}
}

// HandleSplit splits every eligible cell id owns in half, launching the
// new half away from the parent with a decaying SplitVelocity kick.
func (s *BagarioSession) HandleSplit(id uint32) {
	for _, cell := range append([]ecs.EntityID(nil), s.cellsByPlayer[id]...) {
		mass, ok := s.mass.Get(cell)
		if !ok || mass.Value < bagarioStartMass*2 {
			continue
		}
		s.splitCell(cell, *mass)
	}
}

func (s *BagarioSession) splitCell(cell ecs.EntityID, mass component.Mass) {
	owner, ok := s.cellOwner.Get(cell)
	if !ok {
		return
	}
	pos, ok := s.position.Get(cell)
	if !ok {
		return
	}
	tgt, _ := s.target.Get(cell)
	half := mass.Value / 2
	mass.Value = half
	if m, ok := s.mass.Get(cell); ok {
		m.Value = half
	}
	s.mergeTimer.Set(cell, &component.MergeTimer{TimeRemaining: bagarioSplitWindow, CanMerge: false})

	dx, dy := float32(1), float32(0)
	if tgt != nil {
		ddx, ddy := tgt.X-pos.X, tgt.Y-pos.Y
		if d := float32(math.Sqrt(float64(ddx*ddx + ddy*ddy))); d > 1e-3 {
			dx, dy = ddx/d, ddy/d
		}
	}
	spawnPos := component.Position{X: pos.X + dx*component.MassToRadius(half), Y: pos.Y + dy*component.MassToRadius(half)}
	child := s.spawnCell(owner.OwnerID, spawnPos, half, false)
	s.splitVel.Set(child, &component.SplitVelocity{VX: dx * bagarioSplitKick, VY: dy * bagarioSplitKick, DecayRate: 3.0})

	pl := protocol.ServerEntitySpawnPayload{EntityID: uint32(child.Index()), EntityType: protocol.EntityPlayerCell, SpawnX: spawnPos.X, SpawnY: spawnPos.Y, Extra: half, OwnerID: owner.OwnerID}
	s.out.spawns = append(s.out.spawns, frame(protocol.ServerEntitySpawn, pl.Encode()))
}

// HandleEjectMass removes a fixed amount of mass from id's largest cell
// and fires it as an EjectedMass entity toward (dirX, dirY).
func (s *BagarioSession) HandleEjectMass(id uint32, dirX, dirY float32) {
	cells := s.cellsByPlayer[id]
	if len(cells) == 0 {
		return
	}
	largest := cells[0]
	largestMass := float32(0)
	for _, c := range cells {
		if m, ok := s.mass.Get(c); ok && m.Value > largestMass {
			largestMass, largest = m.Value, c
		}
	}
	mass, ok := s.mass.Get(largest)
	if !ok || mass.Value < bagarioStartMass+bagarioEjectAmount {
		return
	}
	mass.Value -= bagarioEjectAmount
	if c, ok := s.collider.Get(largest); ok {
		c.Radius = component.MassToRadius(mass.Value)
	}
	if ctl, ok := s.control.Get(largest); ok {
		ctl.Speed = component.MassToSpeed(mass.Value)
	}
	pos, _ := s.position.Get(largest)
	if pos == nil {
		return
	}
	d := float32(math.Sqrt(float64(dirX*dirX + dirY*dirY)))
	if d < 1e-3 {
		d, dirX, dirY = 1, 1, 0
	}
	nx, ny := dirX/d, dirY/d
	ent := s.world.SpawnEntity()
	spawnPos := component.Position{X: pos.X + nx*component.MassToRadius(mass.Value), Y: pos.Y + ny*component.MassToRadius(mass.Value)}
	s.position.Set(ent, &spawnPos)
	s.velocity.Set(ent, &component.Velocity{X: nx * bagarioEjectSpeed, Y: ny * bagarioEjectSpeed})
	s.collider.Set(ent, &component.CircleCollider{Radius: component.MassToRadius(bagarioEjectMass)})
	s.mass.Set(ent, &component.Mass{Value: bagarioEjectMass})
	s.ejected.Set(ent, &component.EjectedMass{DecayTimer: 12.0, OriginalOwner: id})

	pl := protocol.ServerEntitySpawnPayload{EntityID: uint32(ent.Index()), EntityType: protocol.EntityEjectedMass, SpawnX: spawnPos.X, SpawnY: spawnPos.Y, Extra: bagarioEjectMass, OwnerID: id}
	s.out.spawns = append(s.out.spawns, frame(protocol.ServerEntitySpawn, pl.Encode()))
}

func (s *BagarioSession) seedFood(count int) {
	for i := 0; i < count; i++ {
		ent := s.world.SpawnEntity()
		x := float32((i*911)%int(s.mapWidth-20)) + 10
		y := float32((i*613)%int(s.mapHeight-20)) + 10
		s.position.Set(ent, &component.Position{X: x, Y: y})
		s.food.Set(ent, &component.Food{Nutrition: 1.0, Radius: 4.0})
	}
}

func (s *BagarioSession) seedViruses(count int) {
	for i := 0; i < count; i++ {
		ent := s.world.SpawnEntity()
		x := float32((i*1237+300)%int(s.mapWidth-60)) + 30
		y := float32((i*829+200)%int(s.mapHeight-60)) + 30
		s.position.Set(ent, &component.Position{X: x, Y: y})
		s.collider.Set(ent, &component.CircleCollider{Radius: 40})
		s.virus.Set(ent, &component.Virus{AbsorptionScale: 1.0})
	}
}

// Tick advances the session by dt seconds and, once the snapshot
// accumulator crosses the interval, queues a fresh snapshot + leaderboard.
func (s *BagarioSession) Tick(dt float32) {
	s.runner.Tick(dt)
	for _, id := range s.destroySystem.LastDestroyed {
		pl := protocol.ServerEntityDestroyPayload{EntityID: uint32(id.Index()), Reason: protocol.DestroyEaten}
		s.out.destroys = append(s.out.destroys, frame(protocol.ServerEntityDestroy, pl.Encode()))
	}
	s.bus.ProcessDeferred()

	s.tickCount++
	s.snapshotAccum += dt
	if s.snapshotAccum >= snapshotInterval {
		s.snapshotAccum -= snapshotInterval
		s.buildSnapshot()
		s.buildLeaderboard()
	}
}

func (s *BagarioSession) buildSnapshot() {
	store := &snapshot.Store{
		Position: s.position, Velocity: s.velocity, Food: s.food, Virus: s.virus,
		EjectedMass: s.ejected, PlayerCell: s.playerCell, ToDestroy: s.toDestroy,
	}
	header, states := snapshot.Build(store, uint32(s.tickCount))
	s.out.snapshot = append(s.out.snapshot, frame(protocol.ServerSnapshot, snapshot.Encode(header, states)))
}

// PlayerStanding is one player's rank-ordered position in a Bagario
// match, by total mass across all cells they currently own.
type PlayerStanding struct {
	PlayerID uint32
	Name     string
	Mass     float32
}

// Standings returns every player ranked by descending total mass,
// capped at leaderboardSize. Exported so the persistence layer can
// record end-of-match results without reaching into ECS storage.
func (s *BagarioSession) Standings() []PlayerStanding {
	rows := make([]PlayerStanding, 0, len(s.cellsByPlayer))
	for id, cells := range s.cellsByPlayer {
		var total float32
		for _, c := range cells {
			if m, ok := s.mass.Get(c); ok {
				total += m.Value
			}
		}
		rows = append(rows, PlayerStanding{PlayerID: id, Name: s.playerNames[id], Mass: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Mass > rows[j].Mass })
	if len(rows) > leaderboardSize {
		rows = rows[:leaderboardSize]
	}
	return rows
}

func (s *BagarioSession) buildLeaderboard() {
	rows := s.Standings()
	buf := protocol.ServerLeaderboardHeader{EntryCount: uint8(len(rows))}.Encode()
	for _, r := range rows {
		entry := protocol.LeaderboardEntry{PlayerID: r.PlayerID, Name: r.Name, Value: r.Mass}
		buf = append(buf, entry.Encode()...)
	}
	s.out.leaderboard = append(s.out.leaderboard, frame(protocol.ServerLeaderboard, buf))
}

// DrainOutbound returns every frame queued this tick, in priority order.
func (s *BagarioSession) DrainOutbound() []Frame {
	return s.out.drain()
}

// NextSequence returns the next strictly-increasing sequence number for
// receiver id (spec §5).
func (s *BagarioSession) NextSequence(id uint32) uint16 {
	s.playerSeq[id]++
	return s.playerSeq[id]
}

// ResyncClient re-emits EntitySpawn for every live cell, food pellet,
// virus, and ejected-mass blob id's client should already know about.
func (s *BagarioSession) ResyncClient(playerID uint32) []Frame {
	var frames []Frame
	s.playerCell.Each(func(id ecs.EntityID, _ *component.PlayerCell) {
		if s.toDestroy.Has(id) {
			return
		}
		pos, _ := s.position.Get(id)
		m, _ := s.mass.Get(id)
		owner, _ := s.cellOwner.Get(id)
		if pos == nil || m == nil || owner == nil {
			return
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: protocol.EntityPlayerCell,
			SpawnX: pos.X, SpawnY: pos.Y, Extra: m.Value, OwnerID: owner.OwnerID,
		}.Encode()))
	})
	s.food.Each(func(id ecs.EntityID, f *component.Food) {
		pos, _ := s.position.Get(id)
		if pos == nil {
			return
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: protocol.EntityFood, SpawnX: pos.X, SpawnY: pos.Y, Extra: f.Nutrition,
		}.Encode()))
	})
	s.virus.Each(func(id ecs.EntityID, _ *component.Virus) {
		pos, _ := s.position.Get(id)
		if pos == nil {
			return
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: protocol.EntityVirus, SpawnX: pos.X, SpawnY: pos.Y,
		}.Encode()))
	})
	s.ejected.Each(func(id ecs.EntityID, em *component.EjectedMass) {
		pos, _ := s.position.Get(id)
		if pos == nil || s.toDestroy.Has(id) {
			return
		}
		frames = append(frames, frame(protocol.ServerEntitySpawn, protocol.ServerEntitySpawnPayload{
			EntityID: uint32(id.Index()), EntityType: protocol.EntityEjectedMass, SpawnX: pos.X, SpawnY: pos.Y,
			Extra: bagarioEjectMass, OwnerID: em.OriginalOwner,
		}.Encode()))
	})
	return frames
}
