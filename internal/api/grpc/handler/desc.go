package handler

import (
	"context"

	"google.golang.org/grpc"
)

// Service names of the app API.
const (
	AuthServiceName      = "m2m.Auth"
	ProfileServiceName   = "m2m.Profile"
	LedgerServiceName    = "m2m.Ledger"
	ChecklistServiceName = "m2m.Checklist"
)

// AuthServer is the unauthenticated sign-in API.
type AuthServer interface {
	State(context.Context, *Empty) (*StateResponse, error)
	SubmitCode(context.Context, *SubmitCodeRequest) (*SessionResponse, error)
	SubmitProfile(context.Context, *SubmitProfileRequest) (*SessionResponse, error)
}

// ProfileServer manages the signed-in profile and session.
type ProfileServer interface {
	Get(context.Context, *Empty) (*Profile, error)
	Update(context.Context, *UpdateProfileRequest) (*Profile, error)
	ChangePhoto(context.Context, *ChangePhotoRequest) (*Profile, error)
	Photo(context.Context, *Empty) (*PhotoResponse, error)
	Logout(context.Context, *Empty) (*Empty, error)
	DeleteAccount(context.Context, *Empty) (*Empty, error)
}

// LedgerServer covers payment recording, history and outbound requests.
type LedgerServer interface {
	Calculate(context.Context, *CalculateRequest) (*Calculation, error)
	StartPayment(context.Context, *CalculateRequest) (*StartPaymentResponse, error)
	SelectDate(context.Context, *SelectDateRequest) (*StepResponse, error)
	SelectLocation(context.Context, *SelectLocationRequest) (*ReceiptResponse, error)
	CancelPayment(context.Context, *Empty) (*StepResponse, error)
	ListPayments(context.Context, *Empty) (*PaymentsResponse, error)
	DailyPayments(context.Context, *DateRequest) (*PaymentsResponse, error)
	SetNote(context.Context, *SetNoteRequest) (*Payment, error)
	DeletePayment(context.Context, *PaymentIDRequest) (*DeleteResponse, error)
	RequestGiftCardPayment(context.Context, *GiftCardPaymentRequest) (*Payment, error)
	Month(context.Context, *MonthRequest) (*MonthResponse, error)
	SendMonthlyReport(context.Context, *MonthRequest) (*MessageResponse, error)
	RequestHoliday(context.Context, *HolidayRequest) (*MessageResponse, error)
	EvaluateExpression(context.Context, *ExpressionRequest) (*ExpressionResponse, error)
}

// ChecklistServer drives the shift checklist prompt.
type ChecklistServer interface {
	Evaluate(context.Context, *EvaluateRequest) (*Snapshot, error)
	Check(context.Context, *CheckRequest) (*Snapshot, error)
	Confirm(context.Context, *Empty) (*Snapshot, error)
	RemindLater(context.Context, *Empty) (*Snapshot, error)
	ShowManual(context.Context, *ShowManualRequest) (*Snapshot, error)
	Snapshot(context.Context, *Empty) (*Snapshot, error)
}

// FullMethod returns the gRPC method path, e.g. "/m2m.Auth/SubmitCode".
func FullMethod(service, method string) string {
	return "/" + service + "/" + method
}

func unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(service, method),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AuthServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(AuthServiceName, "State", AuthServer.State),
		unary(AuthServiceName, "SubmitCode", AuthServer.SubmitCode),
		unary(AuthServiceName, "SubmitProfile", AuthServer.SubmitProfile),
	},
	Streams: []grpc.StreamDesc{},
}

var ProfileServiceDesc = grpc.ServiceDesc{
	ServiceName: ProfileServiceName,
	HandlerType: (*ProfileServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ProfileServiceName, "Get", ProfileServer.Get),
		unary(ProfileServiceName, "Update", ProfileServer.Update),
		unary(ProfileServiceName, "ChangePhoto", ProfileServer.ChangePhoto),
		unary(ProfileServiceName, "Photo", ProfileServer.Photo),
		unary(ProfileServiceName, "Logout", ProfileServer.Logout),
		unary(ProfileServiceName, "DeleteAccount", ProfileServer.DeleteAccount),
	},
	Streams: []grpc.StreamDesc{},
}

var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: LedgerServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(LedgerServiceName, "Calculate", LedgerServer.Calculate),
		unary(LedgerServiceName, "StartPayment", LedgerServer.StartPayment),
		unary(LedgerServiceName, "SelectDate", LedgerServer.SelectDate),
		unary(LedgerServiceName, "SelectLocation", LedgerServer.SelectLocation),
		unary(LedgerServiceName, "CancelPayment", LedgerServer.CancelPayment),
		unary(LedgerServiceName, "ListPayments", LedgerServer.ListPayments),
		unary(LedgerServiceName, "DailyPayments", LedgerServer.DailyPayments),
		unary(LedgerServiceName, "SetNote", LedgerServer.SetNote),
		unary(LedgerServiceName, "DeletePayment", LedgerServer.DeletePayment),
		unary(LedgerServiceName, "RequestGiftCardPayment", LedgerServer.RequestGiftCardPayment),
		unary(LedgerServiceName, "Month", LedgerServer.Month),
		unary(LedgerServiceName, "SendMonthlyReport", LedgerServer.SendMonthlyReport),
		unary(LedgerServiceName, "RequestHoliday", LedgerServer.RequestHoliday),
		unary(LedgerServiceName, "EvaluateExpression", LedgerServer.EvaluateExpression),
	},
	Streams: []grpc.StreamDesc{},
}

var ChecklistServiceDesc = grpc.ServiceDesc{
	ServiceName: ChecklistServiceName,
	HandlerType: (*ChecklistServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ChecklistServiceName, "Evaluate", ChecklistServer.Evaluate),
		unary(ChecklistServiceName, "Check", ChecklistServer.Check),
		unary(ChecklistServiceName, "Confirm", ChecklistServer.Confirm),
		unary(ChecklistServiceName, "RemindLater", ChecklistServer.RemindLater),
		unary(ChecklistServiceName, "ShowManual", ChecklistServer.ShowManual),
		unary(ChecklistServiceName, "Snapshot", ChecklistServer.Snapshot),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&AuthServiceDesc, srv)
}

func RegisterProfileServer(s grpc.ServiceRegistrar, srv ProfileServer) {
	s.RegisterService(&ProfileServiceDesc, srv)
}

func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

func RegisterChecklistServer(s grpc.ServiceRegistrar, srv ChecklistServer) {
	s.RegisterService(&ChecklistServiceDesc, srv)
}
