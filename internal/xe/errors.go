package xe

import "github.com/go-orz/orz"

var (
	ErrInvalidParams    = orz.NewError(10400, "参数无效")
	ErrInvalidToken     = orz.NewError(10403, "令牌无效")
	ErrPermissionDenied = orz.NewError(10401, "您没有权限查看/修改/删除此数据")

	ErrWalletNotFound      = orz.NewError(10000, "钱包不存在")
	ErrWalletExists        = orz.NewError(10001, "钱包地址已存在")
	ErrInvalidAddress      = orz.NewError(10002, "钱包地址格式不正确")
	ErrUpstreamUnavailable = orz.NewError(10003, "交易所接口暂时不可用")
	ErrSyncInProgress      = orz.NewError(10004, "同步任务正在进行中")
	ErrIncorrectPassword   = orz.NewError(10005, "账户或密码错误")
	ErrAccountAlreadyUsed  = orz.NewError(10006, "账户已被使用")
	ErrSetupCompleted      = orz.NewError(10007, "系统已完成初始化")
)
