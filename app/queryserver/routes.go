package queryserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/weightdag/dagd/domain/consensus"
	"github.com/weightdag/dagd/domain/consensus/model/externalapi"
)

const (
	routeParamHash       = "hash"
	routeParamTopoHeight = "topoHeight"
	routeParamHeight     = "height"
	routeParamAddress    = "address"

	queryParamStart = "start"
	queryParamCount = "count"

	defaultOrderCount = 100
	maxOrderCount     = 1000
)

type handlerFunc func(vars map[string]string, query map[string][]string) (interface{}, *handlerError)

func makeHandler(handler handlerFunc) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		response, hErr := handler(mux.Vars(r), r.URL.Query())
		if hErr != nil {
			sendErr(w, hErr)
			return
		}
		sendJSONResponse(w, http.StatusOK, response)
	}
}

func sendErr(w http.ResponseWriter, hErr *handlerError) {
	sendJSONResponse(w, hErr.Code, &errorResponse{
		ErrorCode:    hErr.Code,
		ErrorMessage: hErr.Message,
	})
}

func sendJSONResponse(w http.ResponseWriter, status int, response interface{}) {
	b, err := json.Marshal(response)
	if err != nil {
		panic(errors.WithStack(err))
	}
	w.WriteHeader(status)
	_, err = w.Write(b)
	if err != nil {
		log.Warnf("Error writing a query response: %s", err)
	}
}

func (s *Server) addRoutes(router *mux.Router) {
	router.HandleFunc("/info", makeHandler(s.infoHandler)).Methods("GET")
	router.HandleFunc("/blocks/hash/{hash}", makeHandler(s.blockByHashHandler)).Methods("GET")
	router.HandleFunc("/blocks/topo/{topoHeight}", makeHandler(s.blockByTopoHeightHandler)).Methods("GET")
	router.HandleFunc("/blocks/height/{height}", makeHandler(s.blocksAtHeightHandler)).Methods("GET")
	router.HandleFunc("/tips", makeHandler(s.tipsHandler)).Methods("GET")
	router.HandleFunc("/order", makeHandler(s.orderHandler)).Methods("GET")
	router.HandleFunc("/balances/{address}", makeHandler(s.balanceHandler)).Methods("GET")
	router.HandleFunc("/difficulty", makeHandler(s.difficultyHandler)).Methods("GET")
	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler()).Methods("GET")
	}
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErr(w, newHandlerErrorf(http.StatusNotFound, "route %s not found", r.URL.Path))
	})
}

func (s *Server) infoHandler(_ map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	dagState, err := s.consensus.GetDAGState()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	tips, err := s.consensus.GetTips()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	emittedSupply, err := s.consensus.GetEmittedSupply()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}

	response := &infoResponse{
		Network:       s.networkName,
		TopHeight:     dagState.TopHeight,
		TopTopoHeight: dagState.TopTopoHeight,
		TipCount:      len(tips),
		EmittedSupply: emittedSupply,
	}
	if dagState.HasStableHeight {
		stableHeight := dagState.StableHeight
		response.StableHeight = &stableHeight
	}
	if dagState.HasStableTopoHeight {
		stableTopoHeight := dagState.StableTopoHeight
		response.StableTopoHeight = &stableTopoHeight
	}
	return response, nil
}

func (s *Server) blockByHashHandler(vars map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	blockHash, err := externalapi.NewDomainHashFromString(vars[routeParamHash])
	if err != nil {
		return nil, newHandlerErrorf(http.StatusUnprocessableEntity, "the given block hash is not a hex-encoded %d-byte hash",
			externalapi.DomainHashSize)
	}
	return s.blockResponse(blockHash)
}

func (s *Server) blockByTopoHeightHandler(vars map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	topoHeight, hErr := parseUint64(routeParamTopoHeight, vars[routeParamTopoHeight])
	if hErr != nil {
		return nil, hErr
	}
	blockHash, err := s.consensus.GetBlockHashByTopoHeight(topoHeight)
	if err != nil {
		if consensus.IsNotFoundError(err) {
			return nil, newHandlerErrorf(http.StatusNotFound, "no block at topological height %d", topoHeight)
		}
		return nil, newInternalServerHandlerError(err)
	}
	return s.blockResponse(blockHash)
}

func (s *Server) blockResponse(blockHash *externalapi.DomainHash) (interface{}, *handlerError) {
	blockInfo, err := s.consensus.GetBlockInfo(blockHash)
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	if !blockInfo.Exists {
		return nil, newHandlerErrorf(http.StatusNotFound, "no block with hash %s was found", blockHash)
	}
	return convertBlockInfoToBlockResponse(blockInfo), nil
}

func (s *Server) blocksAtHeightHandler(vars map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	height, hErr := parseUint64(routeParamHeight, vars[routeParamHeight])
	if hErr != nil {
		return nil, hErr
	}
	blockHashes, err := s.consensus.GetBlockHashesAtHeight(height)
	if err != nil {
		if consensus.IsNotFoundError(err) {
			return &blocksAtHeightResponse{Height: height, Hashes: []string{}}, nil
		}
		return nil, newInternalServerHandlerError(err)
	}
	return &blocksAtHeightResponse{Height: height, Hashes: hashesToStrings(blockHashes)}, nil
}

func (s *Server) tipsHandler(_ map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	tips, err := s.consensus.GetTips()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	miningTips, err := s.consensus.GetMiningTips()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	return &tipsResponse{Tips: hashesToStrings(tips), MiningTips: hashesToStrings(miningTips)}, nil
}

func (s *Server) orderHandler(_ map[string]string, query map[string][]string) (interface{}, *handlerError) {
	start := uint64(0)
	if values, ok := query[queryParamStart]; ok && len(values) > 0 {
		var hErr *handlerError
		start, hErr = parseUint64(queryParamStart, values[0])
		if hErr != nil {
			return nil, hErr
		}
	}
	count := uint64(defaultOrderCount)
	if values, ok := query[queryParamCount]; ok && len(values) > 0 {
		var hErr *handlerError
		count, hErr = parseUint64(queryParamCount, values[0])
		if hErr != nil {
			return nil, hErr
		}
		if count > maxOrderCount {
			return nil, newHandlerErrorf(http.StatusUnprocessableEntity,
				"%s may not exceed %d", queryParamCount, maxOrderCount)
		}
	}

	order, err := s.consensus.GetDAGOrder(start, count)
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	return &orderResponse{StartTopoHeight: start, Hashes: hashesToStrings(order)}, nil
}

func (s *Server) balanceHandler(vars map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	address := vars[routeParamAddress]
	balance, err := s.consensus.GetBalance(address)
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	return &balanceResponse{Address: address, Balance: balance}, nil
}

func (s *Server) difficultyHandler(_ map[string]string, _ map[string][]string) (interface{}, *handlerError) {
	nextDifficulty, err := s.consensus.GetNextDifficulty()
	if err != nil {
		return nil, newInternalServerHandlerError(err)
	}
	return &difficultyResponse{NextDifficulty: nextDifficulty}, nil
}

func parseUint64(name string, value string) (uint64, *handlerError) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, newHandlerErrorf(http.StatusUnprocessableEntity,
			"couldn't parse the '%s' parameter: %s is not an unsigned integer", name, value)
	}
	return parsed, nil
}
