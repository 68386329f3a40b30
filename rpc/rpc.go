package rpc

import (
	"context"
	"errors"
	"net"
	"net/rpc"
	"time"

	"github.com/wfunc/improvbattle/logger"
	"github.com/wfunc/improvbattle/models"
	"github.com/wfunc/improvbattle/services"
	"github.com/wfunc/improvbattle/session"
)

// callTimeout bounds store queries made on behalf of an RPC call.
const callTimeout = 5 * time.Second

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
	rpc      *rpc.Server
}

// NewServer listens on addr and registers the given services.
func NewServer(addr string, services ...interface{}) (*Server, error) {
	rs := rpc.NewServer()
	for _, svc := range services {
		if err := rs.Register(svc); err != nil {
			return nil, err
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  listener.Addr().String(),
		rpc:      rs,
	}, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *Server) Addr() string {
	return s.address
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go s.rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// PresenceService exposes who is on stage and who has been.
// Methods follow the net/rpc signature: exported args, pointer reply, error result.
type PresenceService struct {
	sessions *session.Manager
	visits   *services.VisitService
}

func NewPresenceService(sessions *session.Manager, visits *services.VisitService) *PresenceService {
	return &PresenceService{sessions: sessions, visits: visits}
}

// OnlineArgs.Limit caps the reply; zero returns every session.
type OnlineArgs struct {
	Limit int
}

type OnlineReply struct {
	Players []models.PresenceEntry
}

func (ps *PresenceService) Online(args *OnlineArgs, reply *OnlineReply) error {
	all := ps.sessions.All()
	if args.Limit > 0 && len(all) > args.Limit {
		all = all[:args.Limit]
	}
	reply.Players = make([]models.PresenceEntry, 0, len(all))
	for _, s := range all {
		reply.Players = append(reply.Players, models.PresenceEntry{
			SessionID:   s.ID,
			PlayerName:  s.PlayerName,
			ConnectedAt: s.CreatedAt,
		})
	}
	return nil
}

type RecentVisitsArgs struct {
	Limit int
}

type RecentVisitsReply struct {
	Visits []models.Visit
}

func (ps *PresenceService) RecentVisits(args *RecentVisitsArgs, reply *RecentVisitsReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	visits, err := ps.visits.Recent(ctx, args.Limit)
	if err != nil {
		return err
	}
	reply.Visits = visits
	return nil
}

// StatsArgs.WithOnline adds the current online count to the reply.
type StatsArgs struct {
	WithOnline bool
}

type StatsReply struct {
	Stats  models.VisitStats
	Online int
}

func (ps *PresenceService) Stats(args *StatsArgs, reply *StatsReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	stats, err := ps.visits.Stats(ctx)
	if err != nil {
		return err
	}
	reply.Stats = stats
	if args.WithOnline {
		reply.Online = ps.sessions.Count()
	}
	return nil
}
